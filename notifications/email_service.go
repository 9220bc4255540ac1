package notifications

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	config "github.com/anjiri1684/pkl_sertifikasi/configs"
	mail "github.com/go-mail/mail/v2"
)

type Mailer interface {
	Send(toEmail, toName, subject, htmlContent string) error
}

// emailClient is nil when no provider is configured; SendEmail then only logs.
var (
	emailMu     sync.RWMutex
	emailClient Mailer
)

// SetEmailClient installs m for SendEmail and returns the previous client.
func SetEmailClient(m Mailer) Mailer {
	emailMu.Lock()
	defer emailMu.Unlock()
	prev := emailClient
	emailClient = m
	return prev
}

func currentEmailClient() Mailer {
	emailMu.RLock()
	defer emailMu.RUnlock()
	return emailClient
}

// InitEmailService prefers SMTP when SMTP_HOST is set and falls back to the
// Brevo HTTP API.
func InitEmailService() {
	if host := config.Config("SMTP_HOST"); host != "" {
		SetEmailClient(&SMTPService{
			Host:          host,
			Port:          config.ConfigInt("SMTP_PORT", 587),
			User:          config.Config("SMTP_USER"),
			Pass:          config.Config("SMTP_PASS"),
			From:          config.Config("SMTP_FROM"),
			SkipTLSVerify: config.Config("SMTP_SKIP_TLS_VERIFY") == "1",
		})
		slog.Info("✅ Email service initialized", "provider", "smtp", "host", host)
		return
	}

	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")
	if apiKey == "" || senderEmail == "" || senderName == "" {
		slog.Warn("⚠️ Email service not configured. Missing SMTP_HOST or Brevo API key, sender email and sender name.")
		SetEmailClient(nil)
		return
	}

	SetEmailClient(&BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		client:      &http.Client{Timeout: 10 * time.Second},
	})
	slog.Info("✅ Email service initialized", "provider", "brevo", "sender", senderEmail)
}

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	client      *http.Client
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (s *BrevoService) Send(toEmail, toName, subject, htmlContent string) error {
	const url = "https://api.brevo.com/v3/smtp/email"

	if err := checkRecipient(toEmail); err != nil {
		return err
	}
	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	body, err := json.Marshal(brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	client := s.client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

type SMTPService struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

func (s *SMTPService) Send(toEmail, toName, subject, htmlContent string) error {
	if err := checkRecipient(toEmail); err != nil {
		return err
	}
	if s.From == "" {
		return fmt.Errorf("smtp not configured (SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetAddressHeader("To", toEmail, toName)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlContent)

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.SkipTLSVerify,
	}
	return d.DialAndSend(m)
}

func checkRecipient(toEmail string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}
	return nil
}

func SendEmail(toName, toEmail, subject, htmlContent string) {
	client := currentEmailClient()
	if client == nil {
		slog.Debug("Email client not initialized, skipping email send.", "to", toEmail, "subject", subject)
		return
	}

	if err := client.Send(toEmail, toName, subject, htmlContent); err != nil {
		slog.Error("🔥 Failed to send email", "to", toEmail, "subject", subject, "error", err)
		return
	}
	slog.Info("✅ Email sent", "to", toEmail, "subject", subject)
}
