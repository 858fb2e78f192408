package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/notifications"
	"github.com/anjiri1684/service_market/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const otpTTL = 5 * time.Minute

// OTPService issues and checks phone verification codes for providers.
type OTPService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOTPService(db *gorm.DB) *OTPService {
	return &OTPService{db: db, now: time.Now}
}

// Request issues a fresh code for the provider's phone, invalidating any
// earlier one, and sends it by SMS.
func (s *OTPService) Request(userID uuid.UUID, phone string) error {
	if phone == "" {
		return fmt.Errorf("%w: phone number is required", ErrValidation)
	}

	var provider models.Provider
	if err := s.db.First(&provider, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: provider profile not found", ErrUnauthorized)
		}
		return err
	}

	token := models.OtpToken{
		UserID:    userID,
		Phone:     phone,
		Code:      utils.GenerateOTPCode(),
		ExpiresAt: s.now().Add(otpTTL),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.OtpToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&token).Error
	})
	if err != nil {
		return err
	}

	go notifications.SendSMS(phone, fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", token.Code))
	return nil
}

// Verify consumes a code, marks the provider's phone as verified and
// recomputes the trust score.
func (s *OTPService) Verify(userID uuid.UUID, code string) (*models.Provider, error) {
	var token models.OtpToken
	err := s.db.Where("user_id = ? AND code = ?", userID, code).
		Order("created_at desc").First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid verification code", ErrValidation)
		}
		return nil, err
	}
	if s.now().After(token.ExpiresAt) {
		return nil, fmt.Errorf("%w: verification code has expired", ErrValidation)
	}

	var provider models.Provider
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&provider, "user_id = ?", userID).Error; err != nil {
			return err
		}

		provider.Phone = &token.Phone
		provider.PhoneVerified = true
		provider.TrustScore = ComputeTrustScore(&provider)

		if err := tx.Model(&models.Provider{}).
			Where("id = ?", provider.ID).
			Updates(map[string]interface{}{
				"phone":          token.Phone,
				"phone_verified": true,
				"trust_score":    provider.TrustScore,
			}).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).Delete(&models.OtpToken{}).Error
	})
	if err != nil {
		return nil, err
	}

	return &provider, nil
}

// PurgeExpiredOTPs removes tokens past their expiry. Run from cron.
func PurgeExpiredOTPs(db *gorm.DB) (int64, error) {
	res := db.Where("expires_at < ?", time.Now()).Delete(&models.OtpToken{})
	return res.RowsAffected, res.Error
}
