package annotate_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/Shubham-NM01/doc-uploader/pkg/annotate"
)

func TestDecodeImage(t *testing.T) {
	payload := []byte("signature-bytes!")
	std := base64.StdEncoding.EncodeToString(payload)
	raw := base64.RawStdEncoding.EncodeToString(payload)

	tests := []struct {
		name       string
		input      string
		wantFormat annotate.Format
		wantData   []byte
		wantErr    error
	}{
		{"png data uri", "data:image/png;base64," + std, annotate.FormatPNG, payload, nil},
		{"jpeg data uri", "data:image/jpeg;base64," + std, annotate.FormatJPEG, payload, nil},
		{"raw base64 is jpeg", std, annotate.FormatJPEG, payload, nil},
		{"unpadded base64", raw, annotate.FormatJPEG, payload, nil},
		{"wrapped base64", std[:8] + "\n" + std[8:], annotate.FormatJPEG, payload, nil},
		{"other mime is jpeg", "data:image/gif;base64," + std, annotate.FormatJPEG, payload, nil},
		{"invalid base64", "data:image/png;base64,***", "", nil, annotate.ErrDecode},
		{"missing comma", "data:image/png;base64", "", nil, annotate.ErrDecode},
		{"empty payload", "data:image/png;base64,", "", nil, annotate.ErrDecode},
		{"empty input", "", "", nil, annotate.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := annotate.DecodeImage(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeImage() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("DecodeImage() unexpected error: %v", err)
			}
			if got.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", got.Format, tt.wantFormat)
			}
			if !bytes.Equal(got.Data, tt.wantData) {
				t.Errorf("Data = %q, want %q", got.Data, tt.wantData)
			}
		})
	}
}

func TestDecodeImage_MarkerAnywhere(t *testing.T) {
	input := "prefix data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("x"))

	// Not a data URI, so the whole string is decoded and fails, but detection
	// still sees the marker.
	_, err := annotate.DecodeImage(input)
	if !errors.Is(err, annotate.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if !strings.Contains(err.Error(), "annotate") {
		t.Errorf("error should carry package prefix: %v", err)
	}
}
