package services

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioWhatsAppSender delivers WhatsApp messages through Twilio's messages
// API. When credentials are missing the sender reports itself disabled and
// every Send succeeds as a no-op, keeping alerting best effort.
type TwilioWhatsAppSender struct {
	accountSID string
	authToken  string
	fromNumber string
	enabled    bool
	client     *http.Client
}

func NewTwilioWhatsAppSender(accountSID string, authToken string, fromNumber string) *TwilioWhatsAppSender {
	return &TwilioWhatsAppSender{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		enabled:    accountSID != "" && authToken != "" && fromNumber != "",
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (sender *TwilioWhatsAppSender) Enabled() bool {
	return sender.enabled
}

func (sender *TwilioWhatsAppSender) Send(phone string, body string) error {
	if !sender.enabled {
		return nil
	}

	values := url.Values{}
	values.Set("From", "whatsapp:"+sender.fromNumber)
	values.Set("To", "whatsapp:"+phone)
	values.Set("Body", body)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", sender.accountSID)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(sender.accountSID, sender.authToken)

	resp, err := sender.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("twilio status %d: %s", resp.StatusCode, string(responseBody))
	}

	return nil
}
