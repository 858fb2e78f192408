package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// Gateway is the external payment provider boundary. Amounts are integers in
// minor currency units throughout.
type Gateway interface {
	CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*Order, error)
	Refund(gatewayPaymentID string, amount int64, notes map[string]string) (*Refund, error)
}

// VerifySignature checks the gateway callback signature: HMAC-SHA256 over
// "orderID|paymentID" keyed by the shared secret, hex encoded.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
