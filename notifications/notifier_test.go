package notifications

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/service_market/models"
	ws "github.com/anjiri1684/service_market/websocket"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentMail struct {
	toName  string
	toEmail string
	subject string
	html    string
}

func newDispatcherUnderTest(t *testing.T) (*Dispatcher, *gorm.DB, *[]sentMail) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Provider{}, &models.Booking{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	var sent []sentMail
	d := NewDispatcher(db, ws.NewHub())
	d.mail = func(toName, toEmail, subject, htmlContent string) {
		sent = append(sent, sentMail{toName: toName, toEmail: toEmail, subject: subject, html: htmlContent})
	}
	return d, db, &sent
}

func TestDispatcherNotifiesProviderOfNewBooking(t *testing.T) {
	d, db, sent := newDispatcherUnderTest(t)

	providerUser := models.User{Name: "Ravi", Email: "ravi@example.com", Password: "x", Role: "provider"}
	if err := db.Create(&providerUser).Error; err != nil {
		t.Fatalf("failed to seed provider user: %v", err)
	}

	booking := models.Booking{ServiceType: "plumbing"}
	d.NotifyNewBooking(providerUser.ID, &booking)

	if len(*sent) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(*sent))
	}
	mail := (*sent)[0]
	if mail.toEmail != "ravi@example.com" || mail.toName != "Ravi" {
		t.Errorf("mail recipient = %s <%s>, want Ravi <ravi@example.com>", mail.toName, mail.toEmail)
	}
	if mail.subject != "New Booking Request" {
		t.Errorf("mail subject = %q", mail.subject)
	}
	if !strings.Contains(mail.html, "plumbing") {
		t.Errorf("mail body does not mention the service type: %q", mail.html)
	}
}

func TestDispatcherNotifiesBookingUserOfStatusChange(t *testing.T) {
	d, db, sent := newDispatcherUnderTest(t)

	user := models.User{Name: "Asha", Email: "asha@example.com", Password: "x", Role: "user"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	providerUser := models.User{Name: "Ravi", Email: "ravi@example.com", Password: "x", Role: "provider"}
	if err := db.Create(&providerUser).Error; err != nil {
		t.Fatalf("failed to seed provider user: %v", err)
	}
	provider := models.Provider{UserID: providerUser.ID, Category: "plumber", ServicePrice: 10000}
	if err := db.Create(&provider).Error; err != nil {
		t.Fatalf("failed to seed provider: %v", err)
	}

	booking := models.Booking{
		UserID:        user.ID,
		ProviderID:    provider.ID,
		ServiceType:   "plumbing",
		Description:   "Fix kitchen sink",
		PreferredDate: time.Now(),
		PreferredTime: "10:00",
		Address:       "12 MG Road",
		Status:        models.BookingAccepted,
		Amount:        10000,
		ServicePrice:  10000,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	d.NotifyBookingStatusChange(&booking, models.BookingAccepted)

	if len(*sent) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(*sent))
	}
	mail := (*sent)[0]
	if mail.toEmail != "asha@example.com" {
		t.Errorf("mail recipient = %s, want the booking user", mail.toEmail)
	}
	if mail.subject != "Booking Accepted" {
		t.Errorf("mail subject = %q, want Booking Accepted", mail.subject)
	}
	if !strings.Contains(mail.html, "accepted by the provider") {
		t.Errorf("mail body missing status message: %q", mail.html)
	}
}

func TestBrevoClientSend(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := &BrevoClient{
		apiBase:     server.URL,
		apiKey:      "test-key",
		senderName:  "Marketplace",
		senderEmail: "noreply@example.com",
		client:      server.Client(),
	}

	err := c.Send("Asha", "asha@example.com", "Booking Accepted", "<p>hello</p>")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotPath != "/v3/smtp/email" {
		t.Errorf("request path = %s, want /v3/smtp/email", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api-key header = %q", gotKey)
	}
	if gotBody["subject"] != "Booking Accepted" {
		t.Errorf("payload subject = %v", gotBody["subject"])
	}

	if err := c.Send("Asha", "not-an-email", "x", "y"); err == nil {
		t.Errorf("Send() with malformed recipient returned nil error")
	}
}

func TestBrevoClientSendSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	c := &BrevoClient{
		apiBase:     server.URL,
		apiKey:      "bad-key",
		senderName:  "Marketplace",
		senderEmail: "noreply@example.com",
		client:      server.Client(),
	}

	err := c.Send("Asha", "asha@example.com", "subject", "body")
	if err == nil {
		t.Fatalf("Send() returned nil error for a rejected request")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("Send() error = %v, want the gateway status surfaced", err)
	}
}
