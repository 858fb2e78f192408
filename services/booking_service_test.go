package services

import (
	"errors"
	"testing"

	"github.com/anjiri1684/service_market/models"
)

func TestValidateTransition(t *testing.T) {
	valid := []struct{ from, to string }{
		{models.BookingPending, models.BookingAccepted},
		{models.BookingPending, models.BookingRejected},
		{models.BookingPending, models.BookingCancelled},
		{models.BookingAccepted, models.BookingInProgress},
		{models.BookingInProgress, models.BookingCompleted},
	}
	for _, tt := range valid {
		if err := ValidateTransition(tt.from, tt.to); err != nil {
			t.Errorf("ValidateTransition(%s, %s) = %v, want nil", tt.from, tt.to, err)
		}
	}

	invalid := []struct{ from, to string }{
		{models.BookingPending, models.BookingInProgress},
		{models.BookingPending, models.BookingCompleted},
		{models.BookingAccepted, models.BookingCompleted},
		{models.BookingAccepted, models.BookingRejected},
		{models.BookingAccepted, models.BookingCancelled},
		{models.BookingInProgress, models.BookingCancelled},
		{models.BookingCompleted, models.BookingInProgress},
		{models.BookingCompleted, models.BookingPending},
		{models.BookingCancelled, models.BookingAccepted},
		{models.BookingRejected, models.BookingAccepted},
		{models.BookingCompleted, models.BookingCompleted},
		{"", models.BookingAccepted},
		{models.BookingPending, "unknown"},
		{models.BookingPending, models.BookingPending},
	}
	for _, tt := range invalid {
		err := ValidateTransition(tt.from, tt.to)
		if err == nil {
			t.Errorf("ValidateTransition(%s, %s) = nil, want error", tt.from, tt.to)
			continue
		}
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("ValidateTransition(%s, %s) = %v, want ErrInvalidTransition", tt.from, tt.to, err)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	terminal := []string{models.BookingRejected, models.BookingCompleted, models.BookingCancelled}
	all := []string{
		models.BookingPending, models.BookingAccepted, models.BookingRejected,
		models.BookingInProgress, models.BookingCompleted, models.BookingCancelled,
	}

	for _, from := range terminal {
		for _, to := range all {
			if err := ValidateTransition(from, to); err == nil {
				t.Errorf("terminal state %s allows transition to %s", from, to)
			}
		}
	}
}
