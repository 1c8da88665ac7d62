// Package annotatetest provides in-memory PDF and signature image fixtures
// for tests of code built on the annotation engine.
package annotatetest

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// Page describes one page of a generated document.
type Page struct {
	Width   float64
	Height  float64
	Content string
}

// BuildPDF writes a minimal uncompressed PDF with a valid cross-reference table.
func BuildPDF(pages ...Page) []byte {
	var buf bytes.Buffer
	offsets := []int{}

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))

	for i, p := range pages {
		writeObj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << >> /Contents %d 0 R >>",
			p.Width, p.Height, 4+2*i,
		))
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(p.Content), p.Content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

// LetterPages returns n US Letter pages with a single stroked line each.
func LetterPages(n int) []Page {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = Page{Width: 612, Height: 792, Content: "0 0 m 100 100 l S"}
	}
	return pages
}

// LetterPDF is BuildPDF(LetterPages(n)...).
func LetterPDF(n int) []byte {
	return BuildPDF(LetterPages(n)...)
}

// SignatureBitmap returns an 8x4 checkerboard with transparent cells.
func SignatureBitmap() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.NRGBA{0, 0, 0, 255})
			} else {
				img.Set(x, y, color.NRGBA{0, 0, 0, 0})
			}
		}
	}
	return img
}

// PNGBase64 returns SignatureBitmap as standard base64 PNG data.
func PNGBase64() string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, SignatureBitmap()); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// PNGDataURI returns SignatureBitmap as a PNG data URI.
func PNGDataURI() string {
	return "data:image/png;base64," + PNGBase64()
}

// JPEGDataURI returns SignatureBitmap as a JPEG data URI.
func JPEGDataURI() string {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, SignatureBitmap(), nil); err != nil {
		panic(err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// ColorJPEG returns a 48x24 red-to-blue gradient encoded as JPEG. Unlike
// SignatureBitmap it is not grayscale, so it keeps its DCT encoding when embedded.
func ColorJPEG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 48, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 48; x++ {
			img.Set(x, y, color.RGBA{uint8(255 - x*5), 40, uint8(x * 5), 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// ColorJPEGDataURI returns ColorJPEG as a JPEG data URI.
func ColorJPEGDataURI() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(ColorJPEG())
}
