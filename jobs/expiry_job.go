package jobs

import (
	"log"
	"time"

	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/notifications"
	"github.com/anjiri1684/service_market/services"
	"gorm.io/gorm"
)

// ExpiryReaper auto-cancels pending bookings the provider never acknowledged.
type ExpiryReaper struct {
	db       *gorm.DB
	notifier notifications.Notifier
}

func NewExpiryReaper(db *gorm.DB, notifier notifications.Notifier) *ExpiryReaper {
	return &ExpiryReaper{db: db, notifier: notifier}
}

// CancelExpiredBookings sweeps bookings whose acknowledgement deadline has
// passed. Each booking is cancelled with its own conditional update, so a
// provider accepting at the same instant wins cleanly and the reaper skips it.
func (r *ExpiryReaper) CancelExpiredBookings() {
	log.Println("Running job: CancelExpiredBookings...")

	now := time.Now()

	var expiredBookings []models.Booking
	err := r.db.
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.BookingPending, now).
		Find(&expiredBookings).Error
	if err != nil {
		log.Printf("Error checking for expired bookings: %v", err)
		return
	}

	if len(expiredBookings) == 0 {
		return
	}

	cancelled := 0
	for _, booking := range expiredBookings {
		err := r.db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Booking{}).
				Where("id = ? AND status = ?", booking.ID, models.BookingPending).
				Updates(map[string]interface{}{
					"status":            models.BookingCancelled,
					"auto_cancelled_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Accepted or rejected while we were sweeping.
				return nil
			}

			cancelled++
			return tx.Model(&models.Provider{}).
				Where("id = ?", booking.ProviderID).
				Update("cancelled_bookings", gorm.Expr("cancelled_bookings + 1")).Error
		})
		if err != nil {
			log.Printf("Error auto-cancelling booking %s: %v", booking.ID, err)
			continue
		}

		booking.Status = models.BookingCancelled
		r.notifier.NotifyBookingStatusChange(&booking, models.BookingCancelled)
	}

	if cancelled > 0 {
		log.Printf("Auto-cancelled %d expired booking(s).", cancelled)
	}
}

// PurgeExpiredOTPs drops stale phone verification codes.
func (r *ExpiryReaper) PurgeExpiredOTPs() {
	purged, err := services.PurgeExpiredOTPs(r.db)
	if err != nil {
		log.Printf("Error purging expired OTP tokens: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Purged %d expired OTP token(s).", purged)
	}
}
