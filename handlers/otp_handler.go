package handlers

import (
	"github.com/anjiri1684/service_market/services"
	"github.com/gofiber/fiber/v2"
)

type OTPHandler struct {
	otp *services.OTPService
}

func NewOTPHandler(otp *services.OTPService) *OTPHandler {
	return &OTPHandler{otp: otp}
}

func (h *OTPHandler) RequestOTP(c *fiber.Ctx) error {
	type Request struct {
		Phone string `json:"phone" validate:"required,min=10,max=15"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.otp.Request(currentUserID(c), req.Phone); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Verification code sent"})
}

func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	type Request struct {
		Code string `json:"code" validate:"required,len=6"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	provider, err := h.otp.Verify(currentUserID(c), req.Code)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Phone verified successfully",
		"trust_score": provider.TrustScore,
	})
}
