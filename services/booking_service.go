package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/notifications"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transitionFrom lists the only status each lifecycle status may be entered
// from. Everything else is rejected before any write happens.
var transitionFrom = map[string]string{
	models.BookingAccepted:   models.BookingPending,
	models.BookingRejected:   models.BookingPending,
	models.BookingCancelled:  models.BookingPending,
	models.BookingInProgress: models.BookingAccepted,
	models.BookingCompleted:  models.BookingInProgress,
}

// ValidateTransition reports whether a booking may move from one lifecycle
// status to another.
func ValidateTransition(from, to string) error {
	want, ok := transitionFrom[to]
	if !ok || from != want {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// BookingService owns every booking status mutation. Each transition is a
// single conditional update keyed on the expected current status, so two
// concurrent movers can never both win; the loser fails its guard cleanly.
type BookingService struct {
	db       *gorm.DB
	notifier notifications.Notifier
	now      func() time.Time
}

func NewBookingService(db *gorm.DB, notifier notifications.Notifier) *BookingService {
	return &BookingService{db: db, notifier: notifier, now: time.Now}
}

// PendingTTL is how long a provider has to acknowledge a new booking before
// the reaper cancels it.
const PendingTTL = 10 * time.Minute

type CreateBookingInput struct {
	ProviderID      uuid.UUID
	ServiceType     string
	ServiceCategory *string
	Description     string
	PreferredDate   time.Time
	PreferredTime   string
	Duration        *string
	Urgency         string
	Address         string
	Latitude        *float64
	Longitude       *float64
	ContactPhone    *string
	Amount          int64
}

func (s *BookingService) Create(userID uuid.UUID, in CreateBookingInput) (*models.Booking, error) {
	var provider models.Provider
	if err := s.db.First(&provider, "id = ?", in.ProviderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider", ErrNotFound)
		}
		return nil, err
	}

	if !provider.Verified {
		return nil, fmt.Errorf("%w: provider is not verified yet", ErrValidation)
	}
	if !provider.Available {
		return nil, fmt.Errorf("%w: provider is currently unavailable", ErrValidation)
	}

	servicePrice := in.Amount
	if servicePrice <= 0 {
		servicePrice = provider.ServicePrice
	}

	rate := CommissionRate()
	commission, earnings := ComputeSplit(servicePrice, rate)

	urgency := in.Urgency
	if urgency == "" {
		urgency = "normal"
	}

	expiresAt := s.now().Add(PendingTTL)
	booking := models.Booking{
		UserID:             userID,
		ProviderID:         provider.ID,
		ServiceType:        in.ServiceType,
		ServiceCategory:    in.ServiceCategory,
		Description:        in.Description,
		PreferredDate:      in.PreferredDate,
		PreferredTime:      in.PreferredTime,
		Duration:           in.Duration,
		Urgency:            urgency,
		Address:            in.Address,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		ContactPhone:       in.ContactPhone,
		Status:             models.BookingPending,
		PaymentStatus:      models.BookingUnpaid,
		ExpiresAt:          &expiresAt,
		Amount:             servicePrice,
		Currency:           "inr",
		ServicePrice:       servicePrice,
		PlatformCommission: commission,
		ProviderEarnings:   earnings,
		CommissionRate:     rate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		return tx.Model(&models.Provider{}).
			Where("id = ?", provider.ID).
			Update("total_bookings", gorm.Expr("total_bookings + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyNewBooking(provider.UserID, &booking)
	return &booking, nil
}

type AcceptBookingInput struct {
	ProviderNotes *string
	FinalAmount   *int64
}

func (s *BookingService) Accept(providerUserID, bookingID uuid.UUID, in AcceptBookingInput) (*models.Booking, error) {
	booking, err := s.ownedByProvider(providerUserID, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":      models.BookingAccepted,
		"accepted_at": now,
	}
	if in.ProviderNotes != nil {
		updates["provider_notes"] = *in.ProviderNotes
	}
	if in.FinalAmount != nil {
		updates["final_amount"] = *in.FinalAmount
	}

	if err := s.transition(booking, models.BookingAccepted, updates); err != nil {
		return nil, err
	}

	s.notifier.NotifyBookingStatusChange(booking, models.BookingAccepted)
	return booking, nil
}

func (s *BookingService) Reject(providerUserID, bookingID uuid.UUID, reason string) (*models.Booking, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}

	booking, err := s.ownedByProvider(providerUserID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(booking, models.BookingRejected, map[string]interface{}{
		"status":           models.BookingRejected,
		"rejected_at":      s.now(),
		"rejection_reason": reason,
	}); err != nil {
		return nil, err
	}

	s.notifier.NotifyBookingStatusChange(booking, models.BookingRejected)
	return booking, nil
}

func (s *BookingService) Start(providerUserID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.ownedByProvider(providerUserID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(booking, models.BookingInProgress, map[string]interface{}{
		"status":     models.BookingInProgress,
		"started_at": s.now(),
	}); err != nil {
		return nil, err
	}

	s.notifier.NotifyBookingStatusChange(booking, models.BookingInProgress)
	return booking, nil
}

func (s *BookingService) Complete(providerUserID, bookingID uuid.UUID, finalAmount *int64) (*models.Booking, error) {
	booking, err := s.ownedByProvider(providerUserID, bookingID)
	if err != nil {
		return nil, err
	}

	amount := booking.Amount
	if finalAmount != nil && *finalAmount > 0 {
		amount = *finalAmount
	}

	if err := s.transition(booking, models.BookingCompleted, map[string]interface{}{
		"status":       models.BookingCompleted,
		"completed_at": s.now(),
		"final_amount": amount,
	}); err != nil {
		return nil, err
	}

	s.notifier.NotifyBookingStatusChange(booking, models.BookingCompleted)
	return booking, nil
}

func (s *BookingService) Cancel(userID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.ownedByUser(userID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(booking, models.BookingCancelled, map[string]interface{}{
		"status": models.BookingCancelled,
	}); err != nil {
		return nil, err
	}

	s.notifier.NotifyBookingStatusChange(booking, models.BookingCancelled)
	return booking, nil
}

func (s *BookingService) Review(userID, bookingID uuid.UUID, rating int, review string) (*models.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if len(review) > 500 {
		return nil, fmt.Errorf("%w: review must be at most 500 characters", ErrValidation)
	}

	booking, err := s.ownedByUser(userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingCompleted {
		return nil, fmt.Errorf("%w: can only review completed bookings", ErrInvalidTransition)
	}
	if booking.ReviewedAt != nil {
		return nil, fmt.Errorf("%w: booking has already been reviewed", ErrAlreadyProcessed)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ? AND reviewed_at IS NULL", booking.ID, models.BookingCompleted).
			Updates(map[string]interface{}{
				"rating":      rating,
				"review":      review,
				"reviewed_at": s.now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: booking has already been reviewed", ErrAlreadyProcessed)
		}

		var result struct {
			Avg float64
		}
		if err := tx.Model(&models.Booking{}).
			Where("provider_id = ? AND rating IS NOT NULL", booking.ProviderID).
			Select("avg(rating) as avg").
			Scan(&result).Error; err != nil {
			return err
		}

		return tx.Model(&models.Provider{}).
			Where("id = ?", booking.ProviderID).
			Update("rating", result.Avg).Error
	})
	if err != nil {
		return nil, err
	}

	return s.reload(booking.ID)
}

// ConfirmPayment records the requester's side of an off-gateway settlement.
// It never credits the ledger; that is AcceptPayment's job.
func (s *BookingService) ConfirmPayment(userID, bookingID uuid.UUID, method string) (*models.Booking, error) {
	if method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrValidation)
	}

	booking, err := s.ownedByUser(userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingCompleted {
		return nil, fmt.Errorf("%w: can only confirm payment for completed bookings", ErrInvalidTransition)
	}
	if booking.PaymentStatus == models.BookingPaid || booking.PaymentStatus == models.BookingRefunded {
		return nil, fmt.Errorf("%w: booking is already settled", ErrAlreadyProcessed)
	}

	res := s.db.Model(&models.Booking{}).
		Where("id = ? AND status = ? AND payment_status NOT IN ?",
			booking.ID, models.BookingCompleted, []string{models.BookingPaid, models.BookingRefunded}).
		Updates(map[string]interface{}{
			"payment_status": models.BookingPaid,
			"payment_method": method,
			"paid_at":        s.now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: booking is already settled", ErrAlreadyProcessed)
	}

	return s.reload(booking.ID)
}

// AcceptPayment marks the payment received on the provider's side and
// credits the provider ledger exactly once. Retries after the first success
// are answered with the current state rather than a second credit.
func (s *BookingService) AcceptPayment(providerUserID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.ownedByProvider(providerUserID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingCompleted {
		return nil, fmt.Errorf("%w: can only accept payment for completed bookings", ErrInvalidTransition)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ? AND payment_accepted_at IS NULL", booking.ID, models.BookingCompleted).
			Updates(map[string]interface{}{
				"payment_status":      models.BookingPaid,
				"payment_accepted_at": s.now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		return CreditProvider(tx, booking.ProviderID, booking.ProviderEarnings, booking.PlatformCommission)
	})
	if err != nil && !errors.Is(err, ErrAlreadyProcessed) {
		return nil, err
	}

	return s.reload(booking.ID)
}

// transition performs the guarded status move. The WHERE clause on the prior
// status is what makes concurrent transitions safe: only one writer can see
// RowsAffected == 1.
func (s *BookingService) transition(booking *models.Booking, to string, updates map[string]interface{}) error {
	if err := ValidateTransition(booking.Status, to); err != nil {
		return err
	}

	res := s.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, transitionFrom[to]).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: booking was concurrently updated", ErrInvalidTransition)
	}

	return s.db.First(booking, "id = ?", booking.ID).Error
}

func (s *BookingService) ownedByProvider(providerUserID, bookingID uuid.UUID) (*models.Booking, error) {
	var provider models.Provider
	if err := s.db.First(&provider, "user_id = ?", providerUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider profile not found", ErrUnauthorized)
		}
		return nil, err
	}

	var booking models.Booking
	if err := s.db.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking", ErrNotFound)
		}
		return nil, err
	}

	if booking.ProviderID != provider.ID {
		return nil, fmt.Errorf("%w: you are not the provider for this booking", ErrUnauthorized)
	}
	return &booking, nil
}

func (s *BookingService) ownedByUser(userID, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking", ErrNotFound)
		}
		return nil, err
	}

	if booking.UserID != userID {
		return nil, fmt.Errorf("%w: this is not your booking", ErrUnauthorized)
	}
	return &booking, nil
}

func (s *BookingService) reload(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}
