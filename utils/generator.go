package utils

import (
	"fmt"
	"math/rand"
	"time"
)

const txnSuffixLength = 10
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTransactionID produces a human-quotable settlement reference,
// e.g. TXN_20260901_X4K9P2M7QA. Uniqueness is enforced by the database
// constraint on payments.transaction_id.
func GenerateTransactionID() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	b := make([]byte, txnSuffixLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}

	return fmt.Sprintf("TXN_%s_%s", time.Now().Format("20060102"), string(b))
}

// GenerateOTPCode returns a 6-digit numeric verification code.
func GenerateOTPCode() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("%06d", seededRand.Intn(1000000))
}
