package services

import (
	config "github.com/anjiri1684/service_market/configs"
	"github.com/anjiri1684/service_market/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditProvider applies one booking's settlement to the provider's running
// balances. Callers must hold the per-booking idempotency guard (the
// conditional update on payment_accepted_at) in the same transaction, so the
// credit lands at most once per booking.
func CreditProvider(tx *gorm.DB, providerID uuid.UUID, earnings, commission int64) error {
	return tx.Model(&models.Provider{}).
		Where("id = ?", providerID).
		Updates(map[string]interface{}{
			"total_earnings":     gorm.Expr("total_earnings + ?", earnings),
			"available_balance":  gorm.Expr("available_balance + ?", earnings),
			"platform_fees":      gorm.Expr("platform_fees + ?", commission),
			"completed_bookings": gorm.Expr("completed_bookings + 1"),
		}).Error
}

// ReverseProviderCredit undoes the earnings side of a credit after a refund.
// Whether the platform commission is also returned is a policy choice; by
// default the platform keeps it.
func ReverseProviderCredit(tx *gorm.DB, providerID uuid.UUID, earnings, commission int64) error {
	updates := map[string]interface{}{
		"total_earnings":    gorm.Expr("total_earnings - ?", earnings),
		"available_balance": gorm.Expr("available_balance - ?", earnings),
	}
	if RefundReversesCommission() {
		updates["platform_fees"] = gorm.Expr("platform_fees - ?", commission)
	}

	return tx.Model(&models.Provider{}).
		Where("id = ?", providerID).
		Updates(updates).Error
}

func RefundReversesCommission() bool {
	return config.Config("REFUND_REVERSES_COMMISSION") == "true"
}
