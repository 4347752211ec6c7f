package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"
)

// Service sends one-time codes over SMTP.
type Service struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	codeTTL   time.Duration
}

type Config struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
	CodeTTL   time.Duration
}

func NewService(cfg Config) *Service {
	return &Service{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		fromEmail: cfg.FromEmail,
		codeTTL:   cfg.CodeTTL,
	}
}

// otpEmailTemplate is the HTML template for verification code emails
const otpEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your Verification Code</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; text-align: center; }
        .code { font-size: 32px; letter-spacing: 8px; font-weight: bold; padding: 15px; background: white; display: inline-block; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Verify Your Account</h1>
        </div>
        <div class="content">
            <p>Enter the code below in the app to verify your email address and complete registration.</p>
            <div class="code">{{.Code}}</div>
            <p>This code expires in <b>{{.TTL}}</b>.</p>
        </div>
        <div class="footer">
            <p>If you did not request this code, you can safely ignore this email.</p>
        </div>
    </div>
</body>
</html>`

type otpEmailData struct {
	Code string
	TTL  string
}

// Deliver sends the verification code to the target email address.
// Implements domain.CodeSender.
func (s *Service) Deliver(ctx context.Context, target, code string) error {
	tmpl, err := template.New("otp").Parse(otpEmailTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, otpEmailData{Code: code, TTL: formatTTL(s.codeTTL)}); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: Your Verification Code\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		target,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{target}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *Service) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

func formatTTL(ttl time.Duration) string {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if ttl < time.Minute {
		return fmt.Sprintf("%d seconds", int(ttl.Seconds()))
	}
	return fmt.Sprintf("%d minute(s)", int(ttl.Minutes()))
}
