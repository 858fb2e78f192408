package routes

import (
	"github.com/anjiri1684/service_market/handlers"
	"github.com/anjiri1684/service_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App, h *handlers.BookingHandler) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", h.GetMyBookings)
	booking.Post("", h.CreateBooking)
	booking.Get("/:id", h.GetBooking)
	booking.Post("/:id/cancel", h.CancelBooking)
	booking.Post("/:id/review", h.ReviewBooking)
	booking.Post("/:id/confirm-payment", h.ConfirmPayment)

	providerBooking := api.Group("/provider/bookings", middleware.Protected(), middleware.ProviderRequired())
	providerBooking.Get("", h.GetProviderBookings)
	providerBooking.Post("/:id/accept", h.AcceptBooking)
	providerBooking.Post("/:id/reject", h.RejectBooking)
	providerBooking.Post("/:id/start", h.StartBooking)
	providerBooking.Post("/:id/complete", h.CompleteBooking)
	providerBooking.Post("/:id/accept-payment", h.AcceptPayment)
}
