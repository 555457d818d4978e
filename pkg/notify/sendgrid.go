package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sendgrid sends transactional email through the v3 mail/send API.
type Sendgrid struct {
	BaseURL string
	APIKey  string
	From    string
	client  *http.Client
}

func NewSendgrid(apiKey, from string) *Sendgrid {
	return &Sendgrid{
		BaseURL: "https://api.sendgrid.com",
		APIKey:  apiKey,
		From:    from,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *Sendgrid) Name() string { return "sendgrid" }

func (s *Sendgrid) IsConfigured() bool { return s.APIKey != "" }

type sgAddress struct {
	Email string `json:"email"`
}

type sgMail struct {
	Personalizations []struct {
		To []sgAddress `json:"to"`
	} `json:"personalizations"`
	From    sgAddress `json:"from"`
	Subject string    `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func (s *Sendgrid) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	var mail sgMail
	mail.Personalizations = []struct {
		To []sgAddress `json:"to"`
	}{{To: []sgAddress{{Email: to}}}}
	mail.From = sgAddress{Email: s.From}
	mail.Subject = subject
	mail.Content = []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{{Type: "text/html", Value: htmlBody}}

	body, err := json.Marshal(mail)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, string(data))
	}
	return nil
}
