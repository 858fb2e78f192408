package handlers

import (
	"strconv"

	"github.com/anjiri1684/service_market/database"
	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SearchProviders is the public provider directory: filterable, sorted by
// trust score then rating.
func SearchProviders(c *fiber.Ctx) error {
	query := database.DB.Preload("User").Where("verified = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("available") == "true" {
		query = query.Where("available = ?", true)
	}
	if raw := c.Query("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid min_rating"})
		}
		query = query.Where("rating >= ?", minRating)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	query.Model(&models.Provider{}).Count(&total)

	var providers []models.Provider
	err := query.Order("trust_score desc, rating desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&providers).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch providers"})
	}

	return c.JSON(fiber.Map{
		"providers": providers,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

func GetProvider(c *fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}

	var provider models.Provider
	if err := database.DB.Preload("User").First(&provider, "id = ?", providerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Provider not found"})
	}

	return c.JSON(provider)
}

func GetMyProviderProfile(c *fiber.Ctx) error {
	var provider models.Provider
	if err := database.DB.Preload("User").First(&provider, "user_id = ?", currentUserID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Provider profile not found"})
	}

	return c.JSON(provider)
}

type UpdateProviderProfileRequest struct {
	Description       *string `json:"description,omitempty"`
	Phone             *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	ServicePrice      *int64  `json:"service_price,omitempty" validate:"omitempty,gt=0"`
	PricePerHour      *int64  `json:"price_per_hour,omitempty" validate:"omitempty,gt=0"`
	ServiceRadius     *int    `json:"service_radius,omitempty" validate:"omitempty,gt=0,lte=100"`
	EmergencyWork     *bool   `json:"emergency_work,omitempty"`
	SkillLevel        *string `json:"skill_level,omitempty" validate:"omitempty,oneof=beginner intermediate expert"`
	YearsOfExperience *int    `json:"years_of_experience,omitempty" validate:"omitempty,gte=0"`

	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	Country    *string `json:"country,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`

	BankAccountNumber     *string `json:"bank_account_number,omitempty"`
	BankIFSCCode          *string `json:"bank_ifsc_code,omitempty"`
	BankAccountHolderName *string `json:"bank_account_holder_name,omitempty"`
	BankName              *string `json:"bank_name,omitempty"`
	UPIID                 *string `json:"upi_id,omitempty"`
}

// UpdateMyProviderProfile applies the allowed-field subset and recomputes the
// trust score from the resulting profile.
func UpdateMyProviderProfile(c *fiber.Ctx) error {
	var req UpdateProviderProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var provider models.Provider
	if err := database.DB.First(&provider, "user_id = ?", currentUserID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Provider profile not found"})
	}

	if req.Description != nil {
		provider.Description = req.Description
	}
	if req.Phone != nil {
		provider.Phone = req.Phone
		provider.PhoneVerified = false
	}
	if req.ServicePrice != nil {
		provider.ServicePrice = *req.ServicePrice
	}
	if req.PricePerHour != nil {
		provider.PricePerHour = req.PricePerHour
	}
	if req.ServiceRadius != nil {
		provider.ServiceRadius = *req.ServiceRadius
	}
	if req.EmergencyWork != nil {
		provider.EmergencyWork = *req.EmergencyWork
	}
	if req.SkillLevel != nil {
		provider.SkillLevel = *req.SkillLevel
	}
	if req.YearsOfExperience != nil {
		provider.YearsOfExperience = req.YearsOfExperience
	}

	if req.Street != nil {
		provider.Address.Street = req.Street
	}
	if req.City != nil {
		provider.Address.City = req.City
	}
	if req.State != nil {
		provider.Address.State = req.State
	}
	if req.Country != nil {
		provider.Address.Country = req.Country
	}
	if req.PostalCode != nil {
		provider.Address.PostalCode = req.PostalCode
	}

	if req.BankAccountNumber != nil {
		provider.BankDetails.AccountNumber = req.BankAccountNumber
	}
	if req.BankIFSCCode != nil {
		provider.BankDetails.IFSCCode = req.BankIFSCCode
	}
	if req.BankAccountHolderName != nil {
		provider.BankDetails.AccountHolderName = req.BankAccountHolderName
	}
	if req.BankName != nil {
		provider.BankDetails.BankName = req.BankName
	}
	if req.UPIID != nil {
		provider.UPIID = req.UPIID
	}

	provider.TrustScore = services.ComputeTrustScore(&provider)

	if err := database.DB.Save(&provider).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"message":     "Profile updated successfully",
		"trust_score": provider.TrustScore,
	})
}

func UpdateAvailability(c *fiber.Ctx) error {
	type Request struct {
		Available bool `json:"available"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	res := database.DB.Model(&models.Provider{}).
		Where("user_id = ?", currentUserID(c)).
		Update("available", req.Available)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update availability"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Provider profile not found"})
	}

	return c.JSON(fiber.Map{"message": "Availability updated", "available": req.Available})
}

func UpdateLocation(c *fiber.Ctx) error {
	type Request struct {
		Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
		Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res := database.DB.Model(&models.Provider{}).
		Where("user_id = ?", currentUserID(c)).
		Updates(map[string]interface{}{
			"latitude":  req.Latitude,
			"longitude": req.Longitude,
		})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update location"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Provider profile not found"})
	}

	return c.JSON(fiber.Map{"message": "Location updated"})
}

// GetProviderPerformance returns the provider's own dashboard counters.
func GetProviderPerformance(c *fiber.Ctx) error {
	var provider models.Provider
	if err := database.DB.First(&provider, "user_id = ?", currentUserID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Provider profile not found"})
	}

	completionRate := 0.0
	if provider.TotalBookings > 0 {
		completionRate = float64(provider.CompletedBookings) / float64(provider.TotalBookings) * 100
	}

	return c.JSON(fiber.Map{
		"total_bookings":     provider.TotalBookings,
		"completed_bookings": provider.CompletedBookings,
		"cancelled_bookings": provider.CancelledBookings,
		"completion_rate":    completionRate,
		"rating":             provider.Rating,
		"trust_score":        provider.TrustScore,
		"total_earnings":     provider.TotalEarnings,
		"available_balance":  provider.AvailableBalance,
	})
}
