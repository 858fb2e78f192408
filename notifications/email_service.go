package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/anjiri1684/service_market/configs"
)

// BrevoClient sends transactional email through the Brevo SMTP API.
type BrevoClient struct {
	apiBase     string
	apiKey      string
	senderName  string
	senderEmail string
	client      *http.Client
}

// NewBrevoClient builds a client from config, or returns nil when the
// deployment has no email credentials. A nil client means emails are skipped,
// never that sends fail.
func NewBrevoClient() *BrevoClient {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		return nil
	}

	apiBase := config.Config("BREVO_API_BASE_URL")
	if apiBase == "" {
		apiBase = "https://api.brevo.com"
	}

	return &BrevoClient{
		apiBase:     apiBase,
		apiKey:      apiKey,
		senderName:  senderName,
		senderEmail: senderEmail,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *BrevoClient) Send(toName, toEmail, subject, htmlContent string) error {
	at := strings.Index(toEmail, "@")
	if at <= 0 {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}
	if toName == "" {
		toName = toEmail[:at]
	}

	payload := map[string]interface{}{
		"sender":      map[string]string{"name": c.senderName, "email": c.senderEmail},
		"to":          []map[string]string{{"email": toEmail, "name": toName}},
		"subject":     subject,
		"htmlContent": htmlContent,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", c.apiBase+"/v3/smtp/email", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

var mailClient *BrevoClient

func InitEmailService() {
	mailClient = NewBrevoClient()
	if mailClient != nil {
		log.Println("✅ Email service initialized successfully.")
	}
}

// SendEmail is the fire-and-forget entry point used outside the dispatcher.
// Failures are logged and swallowed; email never fails a caller.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	if mailClient == nil {
		log.Println("Email client not initialized, skipping email send.")
		return
	}

	if err := mailClient.Send(toName, toEmail, subject, htmlContent); err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return
	}

	log.Printf("✅ Email sent successfully to %s", toEmail)
}
