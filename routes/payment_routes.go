package routes

import (
	"github.com/anjiri1684/service_market/handlers"
	"github.com/anjiri1684/service_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App, h *handlers.PaymentHandler) {
	api := app.Group("/api/v1")

	payment := api.Group("/payments", middleware.Protected())
	payment.Get("/me", h.GetMyPayments)
	payment.Post("/create-order", h.CreateOrder)
	payment.Post("/verify", h.VerifyPayment)
	payment.Post("/:id/refund", h.RefundPayment)

	providerPayment := api.Group("/provider/payments", middleware.Protected(), middleware.ProviderRequired())
	providerPayment.Get("/earnings", h.GetProviderEarnings)
}
