package sms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service sends one-time codes as SMS through the Twilio REST API.
type Service struct {
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
}

type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func NewService(cfg Config) *Service {
	return &Service{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Deliver sends the verification code to the target phone number.
// Implements domain.CodeSender.
func (s *Service) Deliver(ctx context.Context, target, code string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.accountSID)

	form := url.Values{}
	form.Set("To", target)
	form.Set("From", s.fromNumber)
	form.Set("Body", fmt.Sprintf("Enter %s in the app to verify your phone number and complete registration.", code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}
	return nil
}

// IsConfigured checks if the SMS service has valid Twilio credentials
func (s *Service) IsConfigured() bool {
	return s.accountSID != "" && s.authToken != "" && s.fromNumber != ""
}
