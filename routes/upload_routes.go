package routes

import (
	"github.com/anjiri1684/service_market/handlers"
	"github.com/anjiri1684/service_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App, h *handlers.UploadHandler) {
	api := app.Group("/api/v1")

	uploads := api.Group("/uploads", middleware.Protected())
	uploads.Post("", h.UploadDocument)
}
