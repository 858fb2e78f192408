package jobs

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/services"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Provider{}, &models.Booking{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type notifierStub struct {
	statusChanges []string
}

func (n *notifierStub) NotifyNewBooking(providerUserID uuid.UUID, booking *models.Booking) {}

func (n *notifierStub) NotifyBookingStatusChange(booking *models.Booking, status string) {
	n.statusChanges = append(n.statusChanges, status)
}

type reaperFixture struct {
	user         models.User
	providerUser models.User
	provider     models.Provider
	booking      models.Booking
}

func seedExpiredPendingBooking(t *testing.T, db *gorm.DB) reaperFixture {
	t.Helper()

	user := models.User{Name: "Asha", Email: "asha@example.com", Password: "x", Role: "user"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	providerUser := models.User{Name: "Ravi", Email: "ravi@example.com", Password: "x", Role: "provider"}
	if err := db.Create(&providerUser).Error; err != nil {
		t.Fatalf("failed to seed provider user: %v", err)
	}

	provider := models.Provider{
		UserID:             providerUser.ID,
		Category:           "plumber",
		ServicePrice:       10000,
		Verified:           true,
		VerificationStatus: "verified",
		Available:          true,
	}
	if err := db.Create(&provider).Error; err != nil {
		t.Fatalf("failed to seed provider: %v", err)
	}

	expiresAt := time.Now().Add(-time.Minute)
	booking := models.Booking{
		UserID:        user.ID,
		ProviderID:    provider.ID,
		ServiceType:   "plumbing",
		Description:   "Fix kitchen sink",
		PreferredDate: time.Now(),
		PreferredTime: "10:00",
		Address:       "12 MG Road",
		Status:        models.BookingPending,
		PaymentStatus: models.BookingUnpaid,
		ExpiresAt:     &expiresAt,
		Amount:        10000,
		Currency:      "inr",
		ServicePrice:  10000,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	return reaperFixture{user: user, providerUser: providerUser, provider: provider, booking: booking}
}

func TestCancelExpiredBookingsSweepsOverdueBooking(t *testing.T) {
	db := newTestDB(t)
	f := seedExpiredPendingBooking(t, db)

	stub := &notifierStub{}
	NewExpiryReaper(db, stub).CancelExpiredBookings()

	var booking models.Booking
	if err := db.First(&booking, "id = ?", f.booking.ID).Error; err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if booking.Status != models.BookingCancelled {
		t.Fatalf("booking status = %s, want cancelled", booking.Status)
	}
	if booking.AutoCancelledAt == nil {
		t.Errorf("auto_cancelled_at not set on swept booking")
	}

	var provider models.Provider
	if err := db.First(&provider, "id = ?", f.provider.ID).Error; err != nil {
		t.Fatalf("failed to reload provider: %v", err)
	}
	if provider.CancelledBookings != 1 {
		t.Errorf("provider cancelled bookings = %d, want 1", provider.CancelledBookings)
	}

	if len(stub.statusChanges) != 1 || stub.statusChanges[0] != models.BookingCancelled {
		t.Errorf("notified statuses = %v, want single cancelled", stub.statusChanges)
	}

	// Accepting after the sweep must fail: the booking already left pending.
	svc := services.NewBookingService(db, stub)
	_, err := svc.Accept(f.providerUser.ID, f.booking.ID, services.AcceptBookingInput{})
	if !errors.Is(err, services.ErrInvalidTransition) {
		t.Fatalf("Accept() after sweep error = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelExpiredBookingsSkipsBookingAcceptedMidSweep(t *testing.T) {
	db := newTestDB(t)
	f := seedExpiredPendingBooking(t, db)

	stub := &notifierStub{}
	svc := services.NewBookingService(db, stub)
	if _, err := svc.Accept(f.providerUser.ID, f.booking.ID, services.AcceptBookingInput{}); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	// The reaper's guard on status = pending must lose to the accept.
	NewExpiryReaper(db, stub).CancelExpiredBookings()

	var booking models.Booking
	if err := db.First(&booking, "id = ?", f.booking.ID).Error; err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if booking.Status != models.BookingAccepted {
		t.Fatalf("booking status = %s after sweep, want accepted", booking.Status)
	}
	if booking.AutoCancelledAt != nil {
		t.Errorf("auto_cancelled_at set on accepted booking")
	}

	var provider models.Provider
	if err := db.First(&provider, "id = ?", f.provider.ID).Error; err != nil {
		t.Fatalf("failed to reload provider: %v", err)
	}
	if provider.CancelledBookings != 0 {
		t.Errorf("provider cancelled bookings = %d, want 0", provider.CancelledBookings)
	}

	for _, status := range stub.statusChanges {
		if status == models.BookingCancelled {
			t.Errorf("cancelled notification sent for an accepted booking")
		}
	}
}
