package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	config "github.com/anjiri1684/service_market/configs"
	"github.com/google/uuid"
)

var extensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/jpg":       "jpg",
	"image/png":       "png",
	"application/pdf": "pdf",
}

// LocalStorage writes uploads to a directory served by the HTTP layer under
// /uploads. Development fallback for deployments without Cloudinary.
type LocalStorage struct {
	dir string
}

func NewLocalStorage() *LocalStorage {
	dir := config.Config("UPLOADS_DIR")
	if dir == "" {
		dir = "uploads"
	}
	os.MkdirAll(dir, 0o755)
	return &LocalStorage{dir: dir}
}

func (s *LocalStorage) Store(_ context.Context, data []byte, mimeType string) (string, error) {
	ext, ok := extensions[mimeType]
	if !ok {
		ext = "bin"
	}

	fileName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, fileName), data, 0o644); err != nil {
		return "", err
	}

	return fmt.Sprintf("/uploads/%s", fileName), nil
}
