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

	config "github.com/learnsphere/backend/configs"
)

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.ConfigOr("EMAIL_SENDER_NAME", "LearnSphere")

	if apiKey == "" || senderEmail == "" {
		log.Println("⚠️ Email service not configured. Missing API Key or Sender Email.")
		EmailClient = nil
		return
	}

	EmailClient = &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
	}
	log.Println("✅ Email service initialized successfully.")
}

func (s *BrevoService) send(toEmail, toName, subject, htmlContent string) error {
	url := "https://api.brevo.com/v3/smtp/email"

	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail
	}

	payload := brevoPayload{
		Sender:      map[string]string{"email": s.SenderEmail, "name": s.SenderName},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func SendCertificateIssuedEmail(toEmail, toName, courseTitle, verificationCode string, certificateURL *string) {
	if EmailClient == nil {
		return
	}

	link := ""
	if certificateURL != nil {
		link = fmt.Sprintf(`<p><a href="%s">Download your certificate</a></p>`, *certificateURL)
	}

	html := fmt.Sprintf(`
		<h2>Congratulations, %s!</h2>
		<p>You have completed <strong>%s</strong> and your certificate has been issued.</p>
		<p>Verification code: <strong>%s</strong></p>
		%s
		<p>Anyone can verify this certificate using the code above.</p>`,
		toName, courseTitle, verificationCode, link)

	if err := EmailClient.send(toEmail, toName, "Your certificate for "+courseTitle, html); err != nil {
		log.Printf("🔥 Failed to send certificate email to %s: %v", toEmail, err)
	}
}

func SendQuizResultEmail(toEmail, toName, quizTitle string, score int, passed bool) {
	if EmailClient == nil {
		return
	}

	outcome := "did not pass"
	if passed {
		outcome = "passed"
	}

	html := fmt.Sprintf(`
		<h2>Quiz results for %s</h2>
		<p>Hi %s, you scored <strong>%d%%</strong> and %s.</p>`,
		quizTitle, toName, score, outcome)

	if err := EmailClient.send(toEmail, toName, "Results: "+quizTitle, html); err != nil {
		log.Printf("🔥 Failed to send quiz result email to %s: %v", toEmail, err)
	}
}
