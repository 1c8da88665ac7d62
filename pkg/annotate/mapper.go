package annotate

// Rect is a rectangle in document space: unscaled points with the origin
// at the bottom-left corner of the page.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MapToDocumentSpace converts a viewer-space rectangle (pixels at the given
// zoom, origin top-left) into document space for a page of pageHeight points.
// All four magnitudes are divided by scale and the vertical axis is flipped.
// Inputs are not validated; zero or negative sizes pass through.
func MapToDocumentSpace(pageHeight, viewerX, viewerY, viewerWidth, viewerHeight, scale float64) Rect {
	width := viewerWidth / scale
	height := viewerHeight / scale

	return Rect{
		X:      viewerX / scale,
		Y:      pageHeight - (viewerY/scale + height),
		Width:  width,
		Height: height,
	}
}
