package services

import "testing"

func TestFormatPaise(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "₹0.00"},
		{1, "₹0.01"},
		{99, "₹0.99"},
		{100, "₹1.00"},
		{10000, "₹100.00"},
		{123456, "₹1234.56"},
		{-500, "-₹5.00"},
	}

	for _, tt := range tests {
		if got := formatPaise(tt.amount); got != tt.want {
			t.Errorf("formatPaise(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
