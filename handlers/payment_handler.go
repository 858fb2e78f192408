package handlers

import (
	"time"

	"github.com/anjiri1684/service_market/database"
	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	type Request struct {
		BookingID string `json:"booking_id" validate:"required,uuid"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	bookingID, _ := uuid.Parse(req.BookingID)
	order, err := h.payments.CreateOrder(currentUserID(c), bookingID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	type Request struct {
		OrderID   string `json:"razorpay_order_id" validate:"required"`
		PaymentID string `json:"razorpay_payment_id" validate:"required"`
		Signature string `json:"razorpay_signature" validate:"required"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payment, err := h.payments.VerifyPayment(currentUserID(c), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Payment verified", "payment": payment})
}

func (h *PaymentHandler) RefundPayment(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	type Request struct {
		Amount *int64 `json:"amount,omitempty"`
		Reason string `json:"reason" validate:"required"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	isAdmin := currentUserRole(c) == "admin"
	payment, err := h.payments.Refund(currentUserID(c), isAdmin, paymentID, req.Amount, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Refund processed", "payment": payment})
}

func (h *PaymentHandler) GetMyPayments(c *fiber.Ctx) error {
	var payments []models.Payment
	err := database.DB.Where("user_id = ?", currentUserID(c)).
		Order("created_at desc").Limit(100).Find(&payments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}

	return c.JSON(payments)
}

func (h *PaymentHandler) GetProviderEarnings(c *fiber.Ctx) error {
	var provider models.Provider
	if err := database.DB.First(&provider, "user_id = ?", currentUserID(c)).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Provider profile not found"})
	}

	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from date, expected YYYY-MM-DD"})
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to date, expected YYYY-MM-DD"})
		}
		to = parsed.AddDate(0, 0, 1)
	}

	summary, err := h.payments.Earnings(provider.ID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute earnings"})
	}

	return c.JSON(fiber.Map{
		"summary":           summary,
		"total_earnings":    provider.TotalEarnings,
		"available_balance": provider.AvailableBalance,
		"platform_fees":     provider.PlatformFees,
	})
}
