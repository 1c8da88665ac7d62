package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Shubham-NM01/doc-uploader/internal/signatures"
	"github.com/Shubham-NM01/doc-uploader/pkg/annotate"
	"github.com/Shubham-NM01/doc-uploader/pkg/annotate/annotatetest"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func placements(t *testing.T, reqs ...map[string]any) []byte {
	t.Helper()

	data, err := json.Marshal(map[string]any{"signatures": reqs})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "contract.pdf", annotatetest.LetterPDF(2))
	reqs := writeFile(t, dir, "placements.json", placements(t,
		map[string]any{"page_number": 1, "x": 150, "y": 300, "width": 300, "height": 150, "image_data": annotatetest.PNGDataURI()},
		map[string]any{"pageNumber": 4, "x": 0, "y": 0, "width": 10, "height": 10, "imageData": annotatetest.PNGDataURI()},
	))
	out := filepath.Join(dir, "signed.pdf")

	stdout, err := execute(t, "apply", "--in", in, "--requests", reqs, "--out", out)
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}

	for _, want := range []string{"applied: 1", "skipped: 1", "[1] page 4", "wrote " + out} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}

	signed, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	pages, err := annotate.Pages(signed)
	if err != nil {
		t.Fatalf("Pages(output) error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("page count = %d, want 2", len(pages))
	}
	if pages[0].Images != 1 || pages[1].Images != 0 {
		t.Errorf("images per page = %d/%d, want 1/0", pages[0].Images, pages[1].Images)
	}
}

func TestApply_BareArray(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.pdf", annotatetest.LetterPDF(1))
	reqs := writeFile(t, dir, "placements.json", []byte(
		`[{"page_number": 1, "x": 0, "y": 0, "width": 60, "height": 30, "image_data": "`+annotatetest.JPEGDataURI()+`"}]`,
	))

	stdout, err := execute(t, "apply", "--in", in, "--requests", reqs, "--out", filepath.Join(dir, "out.pdf"))
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if !strings.Contains(stdout, "applied: 1") {
		t.Errorf("output = %q", stdout)
	}
}

func TestApply_Errors(t *testing.T) {
	dir := t.TempDir()
	pdf := writeFile(t, dir, "in.pdf", annotatetest.LetterPDF(1))
	garbage := writeFile(t, dir, "garbage.pdf", []byte("not a pdf"))
	one := writeFile(t, dir, "one.json", placements(t,
		map[string]any{"page_number": 1, "x": 0, "y": 0, "width": 10, "height": 10, "image_data": annotatetest.PNGBase64()},
	))
	two := writeFile(t, dir, "two.json", placements(t,
		map[string]any{"page_number": 1, "image_data": annotatetest.PNGBase64()},
		map[string]any{"page_number": 1, "image_data": annotatetest.PNGBase64()},
	))
	empty := writeFile(t, dir, "empty.json", []byte(`{"signatures": []}`))
	broken := writeFile(t, dir, "broken.json", []byte(`{"signatures":`))

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"unparseable document", []string{"--in", garbage, "--requests", one}, annotate.ErrLoad},
		{"empty batch", []string{"--in", pdf, "--requests", empty}, signatures.ErrEmptyBatch},
		{"batch over limit", []string{"--in", pdf, "--requests", two, "--max-requests", "1"}, signatures.ErrTooMany},
		{"malformed placements", []string{"--in", pdf, "--requests", broken}, nil},
		{"missing input", []string{"--in", filepath.Join(dir, "nope.pdf"), "--requests", one}, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.pdf")
			args := append([]string{"apply", "--out", out}, tt.args...)

			_, err := execute(t, args...)
			if err == nil {
				t.Fatal("apply succeeded, want error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
			if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
				t.Error("output written on failure")
			}
		})
	}
}

func TestApply_RequiredFlags(t *testing.T) {
	if _, err := execute(t, "apply", "--in", "x.pdf"); err == nil {
		t.Error("apply without --requests/--out succeeded")
	}
}

func TestPages(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.pdf", annotatetest.LetterPDF(3))

	stdout, err := execute(t, "pages", "--in", in)
	if err != nil {
		t.Fatalf("pages error: %v", err)
	}
	if got := strings.Count(stdout, "612x792 pt"); got != 3 {
		t.Errorf("letter pages listed = %d, want 3:\n%s", got, stdout)
	}

	stdout, err = execute(t, "pages", "--in", in, "--json")
	if err != nil {
		t.Fatalf("pages --json error: %v", err)
	}
	var pages []annotate.PageInfo
	if err := json.Unmarshal([]byte(stdout), &pages); err != nil {
		t.Fatalf("decode json output: %v", err)
	}
	if len(pages) != 3 || pages[2].Number != 3 {
		t.Errorf("pages = %+v", pages)
	}
}

func TestMap(t *testing.T) {
	stdout, err := execute(t, "map", "--page-height", "792", "--x", "150", "--y", "300", "--width", "300", "--height", "150")
	if err != nil {
		t.Fatalf("map error: %v", err)
	}
	if want := "x=100 y=492 width=200 height=100\n"; stdout != want {
		t.Errorf("map output = %q, want %q", stdout, want)
	}

	for _, scale := range []string{"0", "NaN", "+Inf"} {
		if _, err := execute(t, "map", "--scale", scale); err == nil {
			t.Errorf("map with scale %s succeeded", scale)
		}
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := execute(t, "apply", "--log-level", "loud", "--in", "a", "--requests", "b", "--out", "c"); err == nil {
		t.Error("invalid --log-level accepted")
	}
}
