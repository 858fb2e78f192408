package routes

import (
	"github.com/anjiri1684/service_market/handlers"
	"github.com/anjiri1684/service_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/verifications", handlers.ListPendingVerifications)
	admin.Post("/verifications/:id", handlers.ManageVerification)
	admin.Get("/users", handlers.ListUsers)
	admin.Post("/users/:id/deactivate", handlers.DeactivateUser)
	admin.Get("/bookings", handlers.ListAllBookings)
	admin.Get("/analytics", handlers.GetDashboardAnalytics)
}
