package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageStore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOADS_DIR", dir)

	store := NewLocalStorage()
	url, err := store.Store(context.Background(), []byte("%PDF-1.4 fake"), "application/pdf")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	if !strings.HasPrefix(url, "/uploads/") {
		t.Errorf("url = %q, want /uploads/ prefix", url)
	}
	if !strings.HasSuffix(url, ".pdf") {
		t.Errorf("url = %q, want .pdf extension", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("stored content = %q", data)
	}
}

func TestLocalStorageUnknownMimeType(t *testing.T) {
	t.Setenv("UPLOADS_DIR", t.TempDir())

	store := NewLocalStorage()
	url, err := store.Store(context.Background(), []byte("data"), "application/octet-stream")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if !strings.HasSuffix(url, ".bin") {
		t.Errorf("url = %q, want .bin fallback extension", url)
	}
}
