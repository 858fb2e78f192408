package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/anjiri1684/service_market/configs"
	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/notifications"
	"github.com/anjiri1684/service_market/payments"
	"github.com/anjiri1684/service_market/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentService drives gateway settlements: order creation, callback
// verification and refunds. The provider ledger is only ever touched from
// inside its transactions, behind the booking's payment_accepted_at guard.
type PaymentService struct {
	db       *gorm.DB
	gateway  payments.Gateway
	notifier notifications.Notifier
	receipts *ReceiptService
	now      func() time.Time
}

func NewPaymentService(db *gorm.DB, gateway payments.Gateway, notifier notifications.Notifier, receipts *ReceiptService) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, notifier: notifier, receipts: receipts, now: time.Now}
}

type OrderResult struct {
	Payment  *models.Payment `json:"payment"`
	OrderID  string          `json:"order_id"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	KeyID    string          `json:"key_id"`
}

// CreateOrder opens a gateway order for a completed booking and records a
// payment row snapshotting the commission split. The split is recomputed from
// the booking's frozen rate so a final-amount adjustment at completion still
// settles correctly.
func (s *PaymentService) CreateOrder(userID, bookingID uuid.UUID) (*OrderResult, error) {
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
	if booking.Status != models.BookingCompleted {
		return nil, fmt.Errorf("%w: booking must be completed before payment", ErrInvalidTransition)
	}
	if booking.PaymentStatus == models.BookingPaid || booking.PaymentStatus == models.BookingRefunded {
		return nil, fmt.Errorf("%w: booking is already settled", ErrAlreadyProcessed)
	}

	amount := booking.Amount
	if booking.FinalAmount != nil && *booking.FinalAmount > 0 {
		amount = *booking.FinalAmount
	}
	commission, earnings := ComputeSplit(amount, booking.CommissionRate)

	order, err := s.gateway.CreateOrder(amount, booking.Currency, booking.ID.String(), map[string]string{
		"booking_id": booking.ID.String(),
		"user_id":    booking.UserID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	payment := models.Payment{
		BookingID:          booking.ID,
		UserID:             booking.UserID,
		ProviderID:         booking.ProviderID,
		Amount:             amount,
		Currency:           booking.Currency,
		Status:             models.PaymentPending,
		ServicePrice:       amount,
		PlatformCommission: commission,
		ProviderEarnings:   earnings,
		CommissionRate:     booking.CommissionRate,
		GatewayOrderID:     &order.ID,
		InitiatedAt:        s.now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Updates(map[string]interface{}{
				"payment_status":      models.BookingPaymentPending,
				"gateway_order_id":    order.ID,
				"service_price":       amount,
				"platform_commission": commission,
				"provider_earnings":   earnings,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return &OrderResult{
		Payment:  &payment,
		OrderID:  order.ID,
		Amount:   amount,
		Currency: booking.Currency,
		KeyID:    config.Config("RAZORPAY_KEY_ID"),
	}, nil
}

// VerifyPayment validates the gateway callback and settles the booking.
// A bad signature changes nothing; a replayed callback for an already
// settled order returns the current state without a second ledger credit.
func (s *PaymentService) VerifyPayment(userID uuid.UUID, orderID, paymentID, signature string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, "gateway_order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment order", ErrNotFound)
		}
		return nil, err
	}

	if payment.UserID != userID {
		return nil, fmt.Errorf("%w: this is not your payment", ErrUnauthorized)
	}

	if !payments.VerifySignature(orderID, paymentID, signature, config.Config("RAZORPAY_KEY_SECRET")) {
		return nil, ErrSignatureMismatch
	}

	txnID := utils.GenerateTransactionID()
	method := "razorpay"
	now := s.now()

	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentPending).
			Updates(map[string]interface{}{
				"status":             models.PaymentCompleted,
				"gateway_payment_id": paymentID,
				"gateway_signature":  signature,
				"transaction_id":     txnID,
				"payment_method":     method,
				"completed_at":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		if err := tx.First(&booking, "id = ?", payment.BookingID).Error; err != nil {
			return err
		}

		res = tx.Model(&models.Booking{}).
			Where("id = ? AND payment_accepted_at IS NULL", booking.ID).
			Updates(map[string]interface{}{
				"payment_status":      models.BookingPaid,
				"payment_method":      method,
				"paid_at":             now,
				"payment_accepted_at": now,
				"gateway_payment_id":  paymentID,
				"gateway_signature":   signature,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Ledger already credited through another path; settle the
			// payment row only.
			return nil
		}

		return CreditProvider(tx, payment.ProviderID, payment.ProviderEarnings, payment.PlatformCommission)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return s.reloadPayment(payment.ID)
		}
		return nil, err
	}

	s.notifier.NotifyBookingStatusChange(&booking, "payment_received")

	if s.receipts != nil {
		go func(id uuid.UUID) {
			if err := s.receipts.Generate(id); err != nil {
				log.Printf("⚠️ Failed to generate receipt for payment %s: %v", id, err)
			}
		}(payment.ID)
	}

	return s.reloadPayment(payment.ID)
}

// Refund reverses a completed settlement through the gateway and backs the
// earnings out of the provider ledger. Whether the platform commission is
// also returned follows the configured policy.
func (s *PaymentService) Refund(actorID uuid.UUID, isAdmin bool, paymentID uuid.UUID, amount *int64, reason string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment", ErrNotFound)
		}
		return nil, err
	}

	if !isAdmin && payment.UserID != actorID {
		return nil, fmt.Errorf("%w: this is not your payment", ErrUnauthorized)
	}
	if payment.Status == models.PaymentRefunded {
		return nil, fmt.Errorf("%w: payment has already been refunded", ErrAlreadyProcessed)
	}
	if payment.Status != models.PaymentCompleted || payment.GatewayPaymentID == nil {
		return nil, fmt.Errorf("%w: only completed payments can be refunded", ErrInvalidTransition)
	}

	refundAmount := payment.Amount
	if amount != nil && *amount > 0 {
		if *amount > payment.Amount {
			return nil, fmt.Errorf("%w: refund amount exceeds payment amount", ErrValidation)
		}
		refundAmount = *amount
	}

	refund, err := s.gateway.Refund(*payment.GatewayPaymentID, refundAmount, map[string]string{
		"booking_id": payment.BookingID.String(),
		"reason":     reason,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	now := s.now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentCompleted).
			Updates(map[string]interface{}{
				"status":            models.PaymentRefunded,
				"gateway_refund_id": refund.ID,
				"refund_amount":     refundAmount,
				"refund_reason":     reason,
				"refunded_at":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: payment has already been refunded", ErrAlreadyProcessed)
		}

		var booking models.Booking
		if err := tx.First(&booking, "id = ?", payment.BookingID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Update("payment_status", models.BookingRefunded).Error; err != nil {
			return err
		}

		if booking.Credited() {
			return ReverseProviderCredit(tx, payment.ProviderID, payment.ProviderEarnings, payment.PlatformCommission)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reloadPayment(payment.ID)
}

type EarningsSummary struct {
	TotalEarnings     int64   `json:"total_earnings"`
	TotalCommission   int64   `json:"total_commission"`
	GrossVolume       int64   `json:"gross_volume"`
	CompletedPayments int64   `json:"completed_payments"`
	AveragePayment    float64 `json:"average_payment"`
}

// Earnings aggregates a provider's settled payments over a date range.
func (s *PaymentService) Earnings(providerID uuid.UUID, from, to time.Time) (*EarningsSummary, error) {
	var summary EarningsSummary
	err := s.db.Model(&models.Payment{}).
		Where("provider_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			providerID, models.PaymentCompleted, from, to).
		Select(`coalesce(sum(provider_earnings), 0) as total_earnings,
			coalesce(sum(platform_commission), 0) as total_commission,
			coalesce(sum(amount), 0) as gross_volume,
			count(*) as completed_payments,
			coalesce(avg(amount), 0) as average_payment`).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *PaymentService) reloadPayment(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}
