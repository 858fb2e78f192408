package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	config "github.com/anjiri1684/service_market/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type CloudinaryStorage struct {
	folder string
}

func NewCloudinaryStorage() *CloudinaryStorage {
	folder := config.Config("CLOUDINARY_FOLDER")
	if folder == "" {
		folder = "service_market_uploads"
	}
	return &CloudinaryStorage{folder: folder}
}

func (s *CloudinaryStorage) Store(ctx context.Context, data []byte, mimeType string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resourceType := "image"
	if mimeType == "application/pdf" {
		resourceType = "raw"
	}

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("%s/%s", s.folder, uuid.New().String()),
		Folder:       s.folder,
		ResourceType: resourceType,
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(data), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
