package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
)

// Payment is one settlement attempt against a booking. Monetary fields are
// integers in paise and snapshot the booking's commission split at order
// creation time.
type Payment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingID  uuid.UUID `gorm:"not null;index" json:"booking_id"`
	UserID     uuid.UUID `gorm:"not null;index" json:"user_id"`
	ProviderID uuid.UUID `gorm:"not null;index" json:"provider_id"`

	Amount        int64   `gorm:"not null" json:"amount"`
	Currency      string  `gorm:"size:3;not null;default:'inr'" json:"currency"`
	Status        string  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentMethod *string `gorm:"size:20" json:"payment_method"`

	ServicePrice       int64   `gorm:"not null" json:"service_price"`
	PlatformCommission int64   `gorm:"not null" json:"platform_commission"`
	ProviderEarnings   int64   `gorm:"not null" json:"provider_earnings"`
	CommissionRate     float64 `gorm:"not null;default:0.10" json:"commission_rate"`

	GatewayOrderID   *string `gorm:"size:255;index" json:"gateway_order_id"`
	GatewayPaymentID *string `gorm:"size:255;index" json:"gateway_payment_id"`
	GatewaySignature *string `gorm:"size:255" json:"-"`
	GatewayRefundID  *string `gorm:"size:255" json:"gateway_refund_id"`
	TransactionID    *string `gorm:"size:100;unique" json:"transaction_id"`

	InitiatedAt time.Time  `gorm:"not null" json:"initiated_at"`
	CompletedAt *time.Time `json:"completed_at"`
	FailedAt    *time.Time `json:"failed_at"`
	RefundedAt  *time.Time `json:"refunded_at"`

	RefundAmount *int64  `json:"refund_amount"`
	RefundReason *string `gorm:"type:text" json:"refund_reason"`

	ReceiptURL *string `gorm:"size:512" json:"receipt_url"`

	Booking  Booking  `gorm:"foreignkey:BookingID" json:"-"`
	User     User     `gorm:"foreignkey:UserID" json:"-"`
	Provider Provider `gorm:"foreignkey:ProviderID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
