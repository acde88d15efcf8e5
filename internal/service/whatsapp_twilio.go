package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

type TwilioWhatsAppSender struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	HTTPClient *http.Client
}

func NewTwilioWhatsAppSender(accountSID, authToken, from string) *TwilioWhatsAppSender {
	return &TwilioWhatsAppSender{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		BaseURL:    twilioBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *TwilioWhatsAppSender) SendWhatsApp(ctx context.Context, to string, body string) error {
	if strings.TrimSpace(s.AccountSID) == "" || strings.TrimSpace(s.From) == "" {
		return errors.New("whatsapp sender not configured")
	}
	if s.HTTPClient == nil {
		s.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		base = twilioBaseURL
	}
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", base, url.PathEscape(s.AccountSID))

	form := url.Values{}
	form.Set("To", whatsappAddress(to))
	form.Set("From", whatsappAddress(s.From))
	form.Set("Body", body)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	request.SetBasicAuth(s.AccountSID, s.AuthToken)
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := s.HTTPClient.Do(request)
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusCreated && response.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return fmt.Errorf("twilio returned status %d: %s", response.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func whatsappAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
