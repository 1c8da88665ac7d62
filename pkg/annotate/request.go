package annotate

import "encoding/json"

// Request places one signature image on one page.
// Coordinates are viewer-space pixels: scaled by the viewer zoom, origin top-left.
type Request struct {
	PageNumber int     `json:"page_number"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ImageData  string  `json:"image_data"`
}

// UnmarshalJSON accepts both snake_case keys and the camelCase keys
// (pageNumber, imageData) sent by the browser signing page.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw struct {
		PageNumber      *int    `json:"page_number"`
		PageNumberCamel *int    `json:"pageNumber"`
		X               float64 `json:"x"`
		Y               float64 `json:"y"`
		Width           float64 `json:"width"`
		Height          float64 `json:"height"`
		ImageData       *string `json:"image_data"`
		ImageDataCamel  *string `json:"imageData"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Request{
		X:      raw.X,
		Y:      raw.Y,
		Width:  raw.Width,
		Height: raw.Height,
	}

	switch {
	case raw.PageNumber != nil:
		r.PageNumber = *raw.PageNumber
	case raw.PageNumberCamel != nil:
		r.PageNumber = *raw.PageNumberCamel
	}

	switch {
	case raw.ImageData != nil:
		r.ImageData = *raw.ImageData
	case raw.ImageDataCamel != nil:
		r.ImageData = *raw.ImageDataCamel
	}

	return nil
}
