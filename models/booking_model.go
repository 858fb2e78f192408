package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking lifecycle statuses. Transitions between them are owned by
// services.BookingService; nothing else writes the status column.
const (
	BookingPending    = "pending"
	BookingAccepted   = "accepted"
	BookingRejected   = "rejected"
	BookingInProgress = "in_progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// Payment sub-states carried on the booking itself.
const (
	BookingUnpaid         = "unpaid"
	BookingPaymentPending = "processing"
	BookingPaid           = "paid"
	BookingRefunded       = "refunded"
)

type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID `gorm:"not null;index" json:"user_id"`
	ProviderID uuid.UUID `gorm:"not null;index" json:"provider_id"`

	ServiceType     string    `gorm:"size:100;not null" json:"service_type"`
	ServiceCategory *string   `gorm:"size:100" json:"service_category"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	PreferredDate   time.Time `gorm:"not null" json:"preferred_date"`
	PreferredTime   string    `gorm:"size:50;not null" json:"preferred_time"`
	Duration        *string   `gorm:"size:50" json:"duration"`
	Urgency         string    `gorm:"size:10;not null;default:'normal'" json:"urgency"`
	Address         string    `gorm:"size:512;not null" json:"address"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	ContactPhone    *string   `gorm:"size:20" json:"contact_phone"`

	Status          string  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RejectionReason *string `gorm:"type:text" json:"rejection_reason"`
	ProviderNotes   *string `gorm:"type:text" json:"provider_notes"`

	AcceptedAt      *time.Time `json:"accepted_at"`
	RejectedAt      *time.Time `json:"rejected_at"`
	StartedAt       *time.Time `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	ExpiresAt       *time.Time `gorm:"index" json:"expires_at"`
	AutoCancelledAt *time.Time `json:"auto_cancelled_at"`

	// Monetary fields, paise. The commission split is frozen at creation
	// time; later rate changes never touch existing rows.
	Amount             int64   `gorm:"not null" json:"amount"`
	Currency           string  `gorm:"size:3;not null;default:'inr'" json:"currency"`
	FinalAmount        *int64  `json:"final_amount"`
	ServicePrice       int64   `gorm:"not null" json:"service_price"`
	PlatformCommission int64   `gorm:"not null" json:"platform_commission"`
	ProviderEarnings   int64   `gorm:"not null" json:"provider_earnings"`
	CommissionRate     float64 `gorm:"not null;default:0.10" json:"commission_rate"`

	PaymentStatus     string     `gorm:"size:20;not null;default:'unpaid';index" json:"payment_status"`
	PaymentMethod     *string    `gorm:"size:20" json:"payment_method"`
	PaidAt            *time.Time `json:"paid_at"`
	PaymentAcceptedAt *time.Time `json:"payment_accepted_at"`

	GatewayOrderID   *string `gorm:"size:255" json:"gateway_order_id"`
	GatewayPaymentID *string `gorm:"size:255" json:"gateway_payment_id"`
	GatewaySignature *string `gorm:"size:255" json:"-"`

	Rating     *int       `json:"rating"`
	Review     *string    `gorm:"size:500" json:"review"`
	ReviewedAt *time.Time `json:"reviewed_at"`

	User     User     `gorm:"foreignkey:UserID" json:"user"`
	Provider Provider `gorm:"foreignkey:ProviderID" json:"provider"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Expired reports whether a still-pending booking has passed its
// acknowledgement deadline.
func (b *Booking) Expired(now time.Time) bool {
	return b.Status == BookingPending && b.ExpiresAt != nil && !now.Before(*b.ExpiresAt)
}

// Credited reports whether the provider ledger has already been credited for
// this booking. PaymentAcceptedAt doubles as the idempotency marker for both
// crediting paths.
func (b *Booking) Credited() bool {
	return b.PaymentAcceptedAt != nil
}
