package notifications

import (
	"fmt"
	"log"
	"strings"

	"github.com/anjiri1684/service_market/models"
	ws "github.com/anjiri1684/service_market/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier is the capability booking and payment flows use to fan out
// lifecycle events. Delivery is best effort: a failed notification never
// fails the transition that produced it.
type Notifier interface {
	NotifyNewBooking(providerUserID uuid.UUID, booking *models.Booking)
	NotifyBookingStatusChange(booking *models.Booking, status string)
}

var statusMessages = map[string]string{
	models.BookingAccepted:   "Your booking has been accepted by the provider",
	models.BookingRejected:   "Your booking has been rejected by the provider",
	models.BookingInProgress: "The provider has started working on your service",
	models.BookingCompleted:  "Your service has been completed",
	models.BookingCancelled:  "Your booking has been cancelled",
}

// Dispatcher fans lifecycle events out to email and the websocket hub.
// Email delivery goes through the mail function so nothing in the dispatch
// path reaches a package global.
type Dispatcher struct {
	db   *gorm.DB
	hub  *ws.Hub
	mail func(toName, toEmail, subject, htmlContent string)
}

func NewDispatcher(db *gorm.DB, hub *ws.Hub) *Dispatcher {
	return &Dispatcher{
		db:  db,
		hub: hub,
		mail: func(toName, toEmail, subject, htmlContent string) {
			go SendEmail(toName, toEmail, subject, htmlContent)
		},
	}
}

func (d *Dispatcher) NotifyNewBooking(providerUserID uuid.UUID, booking *models.Booking) {
	var recipient models.User
	if err := d.db.First(&recipient, "id = ?", providerUserID).Error; err != nil {
		log.Printf("🔥 Failed to resolve notification recipient %s: %v", providerUserID, err)
		return
	}

	d.mail(recipient.Name, recipient.Email, "New Booking Request",
		fmt.Sprintf("<h1>New Booking Request</h1><p>You have a new booking request for %s. Please check your dashboard to accept or reject.</p>", booking.ServiceType))

	d.hub.Push(providerUserID, map[string]interface{}{
		"type":    "new-booking",
		"message": "You have a new booking request",
		"booking": booking,
	})
}

func (d *Dispatcher) NotifyBookingStatusChange(booking *models.Booking, status string) {
	message, ok := statusMessages[status]
	if !ok {
		message = "Your booking status has changed"
	}

	var user models.User
	if err := d.db.First(&user, "id = ?", booking.UserID).Error; err == nil {
		d.mail(user.Name, user.Email,
			fmt.Sprintf("Booking %s", strings.ToUpper(status[:1])+status[1:]),
			fmt.Sprintf("<h1>Booking Update</h1><p>%s. Service: %s</p>", message, booking.ServiceType))

		d.hub.Push(user.ID, map[string]interface{}{
			"type":    "booking-status-update",
			"message": message,
			"booking": booking,
			"status":  status,
		})
	} else {
		log.Printf("🔥 Failed to resolve booking user %s: %v", booking.UserID, err)
	}

	var provider models.Provider
	if err := d.db.First(&provider, "id = ?", booking.ProviderID).Error; err != nil {
		log.Printf("🔥 Failed to resolve booking provider %s: %v", booking.ProviderID, err)
		return
	}

	d.hub.Push(provider.UserID, map[string]interface{}{
		"type":    "booking-status-update",
		"message": fmt.Sprintf("Booking %s successfully", status),
		"booking": booking,
		"status":  status,
	})
}
