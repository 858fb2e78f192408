package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret"
	orderID := "order_MkWq3vN8dTy2Ab"
	paymentID := "pay_MkWrGhjL4e9XcD"
	valid := sign(orderID, paymentID, secret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
		want      bool
	}{
		{"valid signature", orderID, paymentID, valid, secret, true},
		{"wrong secret", orderID, paymentID, valid, "other_secret", false},
		{"tampered order id", "order_other", paymentID, valid, secret, false},
		{"tampered payment id", orderID, "pay_other", valid, secret, false},
		{"empty signature", orderID, paymentID, "", secret, false},
		{"garbage signature", orderID, paymentID, "not-hex-at-all", secret, false},
		{"swapped ids", paymentID, orderID, valid, secret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySignature(tt.orderID, tt.paymentID, tt.signature, tt.secret); got != tt.want {
				t.Errorf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}
