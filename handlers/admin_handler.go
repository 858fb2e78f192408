package handlers

import (
	"fmt"

	"github.com/anjiri1684/service_market/database"
	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/notifications"
	"github.com/anjiri1684/service_market/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ListPendingVerifications(c *fiber.Ctx) error {
	var providers []models.Provider
	err := database.DB.Preload("User").
		Where("verification_status = ?", "pending").
		Order("created_at asc").
		Find(&providers).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(providers)
}

type ManageVerificationRequest struct {
	Action string  `json:"action" validate:"required,oneof=approve reject"`
	Notes  *string `json:"notes,omitempty"`
}

func ManageVerification(c *fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}

	var req ManageVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Action == "reject" && (req.Notes == nil || *req.Notes == "") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Notes are required when rejecting"})
	}

	var provider models.Provider
	if err := database.DB.Preload("User").First(&provider, "id = ?", providerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Provider not found"})
	}

	verified := req.Action == "approve"
	status := "rejected"
	if verified {
		status = "verified"
	}

	provider.Verified = verified
	provider.VerificationStatus = status
	provider.VerificationNotes = req.Notes
	provider.TrustScore = services.ComputeTrustScore(&provider)

	err = database.DB.Model(&models.Provider{}).
		Where("id = ?", provider.ID).
		Updates(map[string]interface{}{
			"verified":            verified,
			"verification_status": status,
			"verification_notes":  req.Notes,
			"trust_score":         provider.TrustScore,
		}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update verification status"})
	}

	subject := "Your provider account has been verified!"
	body := "<h1>Congratulations!</h1><p>Your account is verified. You can now receive bookings.</p>"
	if !verified {
		subject = "Your provider verification was not approved"
		body = fmt.Sprintf("<h1>Verification Update</h1><p>Your verification was not approved.</p><p>Reason: %s</p>", *req.Notes)
	}
	go notifications.SendEmail(provider.User.Name, provider.User.Email, subject, body)

	return c.JSON(fiber.Map{"message": "Verification " + status, "provider": provider})
}

func ListUsers(c *fiber.Ctx) error {
	var users []models.User
	query := database.DB.Order("created_at desc").Limit(200)
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(users)
}

func ListAllBookings(c *fiber.Ctx) error {
	var bookings []models.Booking
	query := database.DB.Preload("User").Preload("Provider.User").Order("created_at desc").Limit(200)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(bookings)
}

func DeactivateUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	res := database.DB.Model(&models.User{}).
		Where("id = ? AND role <> ?", userID, "admin").
		Update("is_active", false)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate user"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{"message": "User deactivated"})
}

// GetDashboardAnalytics aggregates platform-wide counters for the admin UI.
func GetDashboardAnalytics(c *fiber.Ctx) error {
	var totalUsers, totalProviders, totalBookings, completedBookings int64
	database.DB.Model(&models.User{}).Count(&totalUsers)
	database.DB.Model(&models.Provider{}).Count(&totalProviders)
	database.DB.Model(&models.Booking{}).Count(&totalBookings)
	database.DB.Model(&models.Booking{}).Where("status = ?", models.BookingCompleted).Count(&completedBookings)

	var revenue struct {
		GrossVolume     int64
		TotalCommission int64
	}
	database.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentCompleted).
		Select("coalesce(sum(amount), 0) as gross_volume, coalesce(sum(platform_commission), 0) as total_commission").
		Scan(&revenue)

	return c.JSON(fiber.Map{
		"total_users":        totalUsers,
		"total_providers":    totalProviders,
		"total_bookings":     totalBookings,
		"completed_bookings": completedBookings,
		"gross_volume":       revenue.GrossVolume,
		"platform_revenue":   revenue.TotalCommission,
	})
}
