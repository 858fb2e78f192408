package payments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(apiBase string) *RazorpayClient {
	return &RazorpayClient{
		APIBase:   apiBase,
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateOrder(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if user, pass, ok := r.BasicAuth(); !ok || user != "rzp_test_key" || pass != "rzp_test_secret" {
			t.Errorf("missing or wrong basic auth: %s/%s", user, pass)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(Order{
			ID:       "order_MkWq3vN8dTy2Ab",
			Amount:   10000,
			Currency: "inr",
			Receipt:  "booking-123",
			Status:   "created",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	order, err := client.CreateOrder(10000, "inr", "booking-123", map[string]string{"booking_id": "booking-123"})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if gotPath != "/v1/orders" {
		t.Errorf("request path = %s, want /v1/orders", gotPath)
	}
	if gotBody["amount"].(float64) != 10000 {
		t.Errorf("request amount = %v, want 10000", gotBody["amount"])
	}
	if order.ID != "order_MkWq3vN8dTy2Ab" {
		t.Errorf("order ID = %s", order.ID)
	}
	if order.Status != "created" {
		t.Errorf("order status = %s, want created", order.Status)
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"description":"amount must be at least 100"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.CreateOrder(1, "inr", "booking-123", nil); err == nil {
		t.Fatal("CreateOrder() error = nil, want gateway error")
	}
}

func TestRefund(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(Refund{
			ID:     "rfnd_NxPq8uT3mKv5Wz",
			Amount: 5000,
			Status: "processed",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	refund, err := client.Refund("pay_MkWrGhjL4e9XcD", 5000, map[string]string{"reason": "service issue"})
	if err != nil {
		t.Fatalf("Refund() error = %v", err)
	}

	if gotPath != "/v1/payments/pay_MkWrGhjL4e9XcD/refund" {
		t.Errorf("request path = %s", gotPath)
	}
	if refund.ID != "rfnd_NxPq8uT3mKv5Wz" || refund.Amount != 5000 {
		t.Errorf("refund = %+v", refund)
	}
}
