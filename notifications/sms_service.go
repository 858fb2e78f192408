package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	config "github.com/anjiri1684/service_market/configs"
)

type SMSService struct {
	APIBase string
	APIKey  string
	Sender  string
}

var SMSClient *SMSService

func InitSMSService() {
	apiBase := config.Config("SMS_API_BASE_URL")
	apiKey := config.Config("SMS_API_KEY")
	sender := config.Config("SMS_SENDER_ID")

	if apiBase == "" || apiKey == "" {
		log.Println("⚠️ SMS service not configured. OTP codes will be logged only.")
		SMSClient = nil
		return
	}

	SMSClient = &SMSService{APIBase: apiBase, APIKey: apiKey, Sender: sender}
	log.Println("✅ SMS service initialized successfully.")
}

func (s *SMSService) send(phone, message string) error {
	payload := map[string]string{
		"to":      phone,
		"from":    s.Sender,
		"message": message,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/v1/messages", s.APIBase), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.APIKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SMS API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func SendSMS(phone, message string) {
	if SMSClient == nil {
		log.Printf("SMS client not initialized, skipping SMS to %s", phone)
		return
	}

	if err := SMSClient.send(phone, message); err != nil {
		log.Printf("🔥 Failed to send SMS to %s: %v", phone, err)
		return
	}

	log.Printf("✅ SMS sent successfully to %s", phone)
}
