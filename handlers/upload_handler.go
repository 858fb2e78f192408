package handlers

import (
	"io"
	"log"

	"github.com/anjiri1684/service_market/database"
	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/services"
	"github.com/anjiri1684/service_market/storage"
	"github.com/gofiber/fiber/v2"
)

const maxUploadSize = 5 << 20 // 5 MiB

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

type UploadHandler struct {
	store storage.Storage
}

func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{store: store}
}

func (h *UploadHandler) readUpload(c *fiber.Ctx) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Missing file field")
	}
	if fileHeader.Size > maxUploadSize {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "File exceeds the 5MB limit")
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !allowedUploadTypes[mimeType] {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Only JPEG, PNG and PDF files are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusInternalServerError, "Failed to read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusInternalServerError, "Failed to read upload")
	}
	return data, mimeType, nil
}

// UploadDocument stores an arbitrary document and returns its URL.
func (h *UploadHandler) UploadDocument(c *fiber.Ctx) error {
	data, mimeType, err := h.readUpload(c)
	if err != nil {
		return err
	}

	url, err := h.store.Store(c.Context(), data, mimeType)
	if err != nil {
		log.Printf("🔥 Failed to store upload: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store file"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

// UploadIDDocument stores a provider's identity document and attaches it to
// their profile for admin review.
func (h *UploadHandler) UploadIDDocument(c *fiber.Ctx) error {
	var provider models.Provider
	if err := database.DB.First(&provider, "user_id = ?", currentUserID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Provider profile not found"})
	}

	data, mimeType, err := h.readUpload(c)
	if err != nil {
		return err
	}

	url, err := h.store.Store(c.Context(), data, mimeType)
	if err != nil {
		log.Printf("🔥 Failed to store ID document: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store file"})
	}

	provider.IDDocumentURL = &url
	provider.TrustScore = services.ComputeTrustScore(&provider)

	err = database.DB.Model(&models.Provider{}).
		Where("id = ?", provider.ID).
		Updates(map[string]interface{}{
			"id_document_url": url,
			"trust_score":     provider.TrustScore,
		}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save document"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url":         url,
		"trust_score": provider.TrustScore,
	})
}
