package storage

import (
	"context"

	config "github.com/anjiri1684/service_market/configs"
)

// Storage persists uploaded documents and returns a serveable URL. The
// backend is chosen once at startup via STORAGE_BACKEND; only one is active
// per deployment.
type Storage interface {
	Store(ctx context.Context, data []byte, mimeType string) (string, error)
}

func New() Storage {
	switch config.Config("STORAGE_BACKEND") {
	case "local":
		return NewLocalStorage()
	default:
		return NewCloudinaryStorage()
	}
}
