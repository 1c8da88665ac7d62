package storage_test

import (
	"testing"

	"github.com/Shubham-NM01/doc-uploader/pkg/storage"
)

func TestConfig_Finalize_Defaults(t *testing.T) {
	cfg := &storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if cfg.BasePath != ".data/blobs" {
		t.Errorf("BasePath = %q", cfg.BasePath)
	}
	if cfg.MaxUploadSizeBytes() != 100*1000*1000 {
		t.Errorf("MaxUploadSizeBytes() = %d", cfg.MaxUploadSizeBytes())
	}
	if cfg.DocumentsPrefix != "documents" || cfg.PreviewsPrefix != "previews" {
		t.Errorf("prefixes = %q/%q, want documents/previews", cfg.DocumentsPrefix, cfg.PreviewsPrefix)
	}
}

func TestConfig_Finalize_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_STORAGE_DOCUMENTS_PREFIX", "/uploads/")
	t.Setenv("TEST_STORAGE_PREVIEWS_PREFIX", "cache/pages")
	t.Setenv("TEST_STORAGE_MAX_UPLOAD_SIZE", "10MB")

	cfg := &storage.Config{}
	env := &storage.Env{
		MaxUploadSize:   "TEST_STORAGE_MAX_UPLOAD_SIZE",
		DocumentsPrefix: "TEST_STORAGE_DOCUMENTS_PREFIX",
		PreviewsPrefix:  "TEST_STORAGE_PREVIEWS_PREFIX",
	}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if cfg.DocumentsPrefix != "uploads" {
		t.Errorf("DocumentsPrefix = %q, want uploads", cfg.DocumentsPrefix)
	}
	if cfg.PreviewsPrefix != "cache/pages" {
		t.Errorf("PreviewsPrefix = %q, want cache/pages", cfg.PreviewsPrefix)
	}
	if cfg.MaxUploadSizeBytes() != 10*1000*1000 {
		t.Errorf("MaxUploadSizeBytes() = %d", cfg.MaxUploadSizeBytes())
	}
}

func TestConfig_Finalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"bad size", storage.Config{MaxUploadSize: "lots"}},
		{"zero size", storage.Config{MaxUploadSize: "0"}},
		{"only slashes", storage.Config{DocumentsPrefix: "//"}},
		{"parent segment", storage.Config{PreviewsPrefix: "../previews"}},
		{"dot segment", storage.Config{DocumentsPrefix: "a/./b"}},
		{"backslash", storage.Config{DocumentsPrefix: `docs\signed`}},
		{"same prefix", storage.Config{DocumentsPrefix: "blobs", PreviewsPrefix: "blobs/"}},
		{"nested prefix", storage.Config{DocumentsPrefix: "blobs", PreviewsPrefix: "blobs/previews"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Finalize(nil); err == nil {
				t.Errorf("Finalize(%+v) succeeded, want error", tt.cfg)
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := storage.Config{BasePath: "/srv/blobs", DocumentsPrefix: "documents", PreviewsPrefix: "previews"}
	base.Merge(&storage.Config{PreviewsPrefix: "thumbs", MaxUploadSize: "5MB"})

	if base.BasePath != "/srv/blobs" || base.DocumentsPrefix != "documents" {
		t.Errorf("unset overlay fields changed: %+v", base)
	}
	if base.PreviewsPrefix != "thumbs" {
		t.Errorf("PreviewsPrefix = %q, want thumbs", base.PreviewsPrefix)
	}
	if base.MaxUploadSize != "5MB" || base.MaxUploadSizeBytes() != 5*1000*1000 {
		t.Errorf("MaxUploadSize = %q (%d)", base.MaxUploadSize, base.MaxUploadSizeBytes())
	}
}
