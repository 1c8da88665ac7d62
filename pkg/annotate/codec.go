package annotate

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Format identifies the bitmap encoding of a signature image.
type Format string

// Supported signature image formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// pngMarker selects PNG decoding. Anything else is treated as JPEG.
const pngMarker = "data:image/png"

// Image is a decoded signature bitmap.
type Image struct {
	Data   []byte
	Format Format
}

// DecodeImage decodes a data URI or raw base64 string into image bytes.
//
// A leading "data:<mime>;base64," prefix is stripped at the first comma.
// The format is PNG when the input contains "data:image/png" and JPEG
// otherwise; the bytes themselves are not inspected. A raw base64 PNG without
// the data URI prefix is therefore reported as JPEG and will fail to embed.
func DecodeImage(imageData string) (Image, error) {
	format := FormatJPEG
	if strings.Contains(imageData, pngMarker) {
		format = FormatPNG
	}

	payload := imageData
	if strings.HasPrefix(imageData, "data:") {
		_, after, ok := strings.Cut(imageData, ",")
		if !ok {
			return Image{}, fmt.Errorf("%w: data uri has no payload", ErrDecode)
		}
		payload = after
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty image", ErrDecode)
	}

	return Image{Data: data, Format: format}, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	if len(s)%4 != 0 && !strings.HasSuffix(s, "=") {
		if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
			return raw, nil
		}
	}

	return nil, err
}
