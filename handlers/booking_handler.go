package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/anjiri1684/service_market/database"
	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID
}

func currentUserRole(c *fiber.Ctx) string {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	return claims["role"].(string)
}

// serviceError maps the service error taxonomy onto HTTP responses. Internal
// detail stays in the logs.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyProcessed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrSignatureMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment verification failed"})
	case errors.Is(err, services.ErrGateway):
		log.Printf("🔥 Payment gateway error: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payment gateway is unavailable"})
	default:
		log.Printf("🔥 Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong"})
	}
}

type BookingHandler struct {
	bookings *services.BookingService
}

func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type CreateBookingRequest struct {
	ProviderID      string   `json:"provider_id" validate:"required,uuid"`
	ServiceType     string   `json:"service_type" validate:"required"`
	ServiceCategory *string  `json:"service_category,omitempty"`
	Description     string   `json:"description" validate:"required"`
	PreferredDate   string   `json:"preferred_date" validate:"required"`
	PreferredTime   string   `json:"preferred_time" validate:"required"`
	Duration        *string  `json:"duration,omitempty"`
	Urgency         string   `json:"urgency" validate:"omitempty,oneof=low normal high"`
	Address         string   `json:"address" validate:"required"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	ContactPhone    *string  `json:"contact_phone,omitempty"`
	Amount          int64    `json:"amount,omitempty"`
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	providerID, _ := uuid.Parse(req.ProviderID)
	preferredDate, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid preferred_date, expected YYYY-MM-DD"})
	}

	booking, err := h.bookings.Create(userID, services.CreateBookingInput{
		ProviderID:      providerID,
		ServiceType:     req.ServiceType,
		ServiceCategory: req.ServiceCategory,
		Description:     req.Description,
		PreferredDate:   preferredDate,
		PreferredTime:   req.PreferredTime,
		Duration:        req.Duration,
		Urgency:         req.Urgency,
		Address:         req.Address,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ContactPhone:    req.ContactPhone,
		Amount:          req.Amount,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *BookingHandler) AcceptBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	type Request struct {
		ProviderNotes *string `json:"provider_notes,omitempty"`
		FinalAmount   *int64  `json:"final_amount,omitempty"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	booking, err := h.bookings.Accept(currentUserID(c), bookingID, services.AcceptBookingInput{
		ProviderNotes: req.ProviderNotes,
		FinalAmount:   req.FinalAmount,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Booking accepted", "booking": booking})
}

func (h *BookingHandler) RejectBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	type Request struct {
		Reason string `json:"reason" validate:"required"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.bookings.Reject(currentUserID(c), bookingID, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Booking rejected", "booking": booking})
}

func (h *BookingHandler) StartBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	booking, err := h.bookings.Start(currentUserID(c), bookingID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Work started", "booking": booking})
}

func (h *BookingHandler) CompleteBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	type Request struct {
		FinalAmount *int64 `json:"final_amount,omitempty"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	booking, err := h.bookings.Complete(currentUserID(c), bookingID, req.FinalAmount)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Booking completed", "booking": booking})
}

func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	booking, err := h.bookings.Cancel(currentUserID(c), bookingID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Booking cancelled", "booking": booking})
}

func (h *BookingHandler) ReviewBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	type Request struct {
		Rating int    `json:"rating" validate:"required,min=1,max=5"`
		Review string `json:"review" validate:"max=500"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.bookings.Review(currentUserID(c), bookingID, req.Rating, req.Review)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Review submitted", "booking": booking})
}

func (h *BookingHandler) ConfirmPayment(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	type Request struct {
		PaymentMethod string `json:"payment_method" validate:"required,oneof=cash upi razorpay"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.bookings.ConfirmPayment(currentUserID(c), bookingID, req.PaymentMethod)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Payment confirmed", "booking": booking})
}

func (h *BookingHandler) AcceptPayment(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	booking, err := h.bookings.AcceptPayment(currentUserID(c), bookingID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Payment accepted", "booking": booking})
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var booking models.Booking
	if err := database.DB.Preload("Provider.User").Preload("User").First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	userID := currentUserID(c)
	if currentUserRole(c) != "admin" && booking.UserID != userID {
		var provider models.Provider
		if err := database.DB.First(&provider, "user_id = ?", userID).Error; err != nil || booking.ProviderID != provider.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have access to this booking"})
		}
	}

	return c.JSON(booking)
}

func (h *BookingHandler) GetMyBookings(c *fiber.Ctx) error {
	userID := currentUserID(c)

	query := database.DB.Preload("Provider.User").Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("created_at desc").Limit(100).Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}

	return c.JSON(bookings)
}

func (h *BookingHandler) GetProviderBookings(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var provider models.Provider
	if err := database.DB.First(&provider, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Provider profile not found"})
	}

	query := database.DB.Preload("User").Where("provider_id = ?", provider.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("created_at desc").Limit(100).Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}

	return c.JSON(bookings)
}
