package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/anjiri1684/service_market/models"
	"github.com/anjiri1684/service_market/storage"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReceiptService renders a PDF receipt for a settled payment and stores it
// through the configured storage backend. Generation is best-effort: a
// failure never blocks or reverses the settlement itself.
type ReceiptService struct {
	db    *gorm.DB
	store storage.Storage
}

func NewReceiptService(db *gorm.DB, store storage.Storage) *ReceiptService {
	return &ReceiptService{db: db, store: store}
}

func (s *ReceiptService) Generate(paymentID uuid.UUID) error {
	var payment models.Payment
	err := s.db.Preload("Booking").Preload("User").Preload("Provider.User").
		First(&payment, "id = ?", paymentID).Error
	if err != nil {
		return err
	}

	if payment.Status != models.PaymentCompleted {
		return fmt.Errorf("payment %s is not completed", paymentID)
	}
	if payment.ReceiptURL != nil {
		return nil
	}

	htmlData, err := renderReceiptHTML(&payment)
	if err != nil {
		return fmt.Errorf("render receipt HTML: %w", err)
	}

	pdfBytes, err := printToPDF(htmlData)
	if err != nil {
		return fmt.Errorf("print receipt PDF: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	url, err := s.store.Store(ctx, pdfBytes, "application/pdf")
	if err != nil {
		return fmt.Errorf("store receipt: %w", err)
	}

	if err := s.db.Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Update("receipt_url", url).Error; err != nil {
		return err
	}

	log.Printf("✅ Generated receipt for payment %s", payment.ID)
	return nil
}

func renderReceiptHTML(payment *models.Payment) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	txnID := ""
	if payment.TransactionID != nil {
		txnID = *payment.TransactionID
	}
	settledAt := payment.InitiatedAt
	if payment.CompletedAt != nil {
		settledAt = *payment.CompletedAt
	}

	data := struct {
		TransactionID string
		CustomerName  string
		ProviderName  string
		ServiceType   string
		Amount        string
		Commission    string
		Earnings      string
		SettledAt     string
	}{
		TransactionID: txnID,
		CustomerName:  payment.User.Name,
		ProviderName:  payment.Provider.User.Name,
		ServiceType:   payment.Booking.ServiceType,
		Amount:        formatPaise(payment.Amount),
		Commission:    formatPaise(payment.PlatformCommission),
		Earnings:      formatPaise(payment.ProviderEarnings),
		SettledAt:     settledAt.Format("January 2, 2006 15:04"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func printToPDF(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

// formatPaise renders an amount in paise as rupees, e.g. 123456 -> "₹1234.56".
func formatPaise(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, amount/100, amount%100)
}
