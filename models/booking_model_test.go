package models

import (
	"testing"
	"time"
)

func TestBookingExpired(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name      string
		status    string
		expiresAt *time.Time
		want      bool
	}{
		{"pending past deadline", BookingPending, &past, true},
		{"pending exactly at deadline", BookingPending, &now, true},
		{"pending before deadline", BookingPending, &future, false},
		{"pending without deadline", BookingPending, nil, false},
		{"accepted past deadline", BookingAccepted, &past, false},
		{"completed past deadline", BookingCompleted, &past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Booking{Status: tt.status, ExpiresAt: tt.expiresAt}
			if got := b.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookingCredited(t *testing.T) {
	var b Booking
	if b.Credited() {
		t.Error("Credited() = true for booking without payment_accepted_at")
	}

	now := time.Now()
	b.PaymentAcceptedAt = &now
	if !b.Credited() {
		t.Error("Credited() = false for booking with payment_accepted_at")
	}
}
