package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateTransactionID(t *testing.T) {
	id := GenerateTransactionID()

	if !strings.HasPrefix(id, "TXN_") {
		t.Errorf("transaction ID %q missing TXN_ prefix", id)
	}

	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		t.Fatalf("transaction ID %q has %d parts, want 3", id, len(parts))
	}
	if parts[1] != time.Now().Format("20060102") {
		t.Errorf("transaction ID date part = %s", parts[1])
	}
	if len(parts[2]) != txnSuffixLength {
		t.Errorf("transaction ID suffix length = %d, want %d", len(parts[2]), txnSuffixLength)
	}
}

func TestGenerateOTPCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateOTPCode()
		if len(code) != 6 {
			t.Fatalf("OTP code %q length = %d, want 6", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("OTP code %q contains non-digit %q", code, r)
			}
		}
	}
}
