package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Twilio sends SMS through the Messages API using basic auth.
type Twilio struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	client     *http.Client
}

func NewTwilio(accountSID, authToken, from string) *Twilio {
	return &Twilio{
		BaseURL:    "https://api.twilio.com",
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *Twilio) Name() string { return "twilio" }

func (t *Twilio) IsConfigured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.From != ""
}

func (t *Twilio) SendSMS(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.BaseURL, t.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.AccountSID, t.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio: status %d: %s", resp.StatusCode, string(data))
	}
	return nil
}
