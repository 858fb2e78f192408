package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	config "github.com/anjiri1684/service_market/configs"
)

// RazorpayClient talks to the Razorpay orders API. Requests carry a bounded
// timeout; a timed-out call leaves the local Payment in its prior state to be
// resolved by a later verification attempt.
type RazorpayClient struct {
	APIBase   string
	KeyID     string
	KeySecret string
	client    *http.Client
}

func NewRazorpayClient() *RazorpayClient {
	apiBase := config.Config("RAZORPAY_API_BASE_URL")
	if apiBase == "" {
		apiBase = "https://api.razorpay.com"
	}
	return &RazorpayClient{
		APIBase:   apiBase,
		KeyID:     config.Config("RAZORPAY_KEY_ID"),
		KeySecret: config.Config("RAZORPAY_KEY_SECRET"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *RazorpayClient) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s%s", r.APIBase, path), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(r.KeyID, r.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *RazorpayClient) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	var order Order
	if err := r.post("/v1/orders", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *RazorpayClient) Refund(gatewayPaymentID string, amount int64, notes map[string]string) (*Refund, error) {
	payload := map[string]interface{}{
		"amount": amount,
		"notes":  notes,
	}

	var refund Refund
	if err := r.post(fmt.Sprintf("/v1/payments/%s/refund", gatewayPaymentID), payload, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}
