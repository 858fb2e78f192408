package routes

import (
	"github.com/anjiri1684/service_market/handlers"
	"github.com/anjiri1684/service_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProviderRoutes(app *fiber.App, otp *handlers.OTPHandler, upload *handlers.UploadHandler) {
	api := app.Group("/api/v1")

	// Public directory.
	api.Get("/providers", handlers.SearchProviders)
	api.Get("/providers/:id", handlers.GetProvider)

	me := api.Group("/provider", middleware.Protected(), middleware.ProviderRequired())
	me.Get("/profile", handlers.GetMyProviderProfile)
	me.Put("/profile", handlers.UpdateMyProviderProfile)
	me.Put("/availability", handlers.UpdateAvailability)
	me.Put("/location", handlers.UpdateLocation)
	me.Get("/performance", handlers.GetProviderPerformance)

	me.Post("/verify-phone/request", otp.RequestOTP)
	me.Post("/verify-phone/confirm", otp.VerifyOTP)
	me.Post("/documents/id", upload.UploadIDDocument)
}
