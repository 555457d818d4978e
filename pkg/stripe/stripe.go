package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client is a thin wrapper over the Stripe Checkout Session API. Only the
// calls the card payment flow needs are implemented.
type Client struct {
	BaseURL           string
	APIKey            string
	redirectAllowlist []string
	enforceAllowlist  bool
	client            *http.Client
}

func New(baseURL, apiKey, redirectAllowlist string, enforceAllowlist bool) *Client {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	var prefixes []string
	for _, p := range strings.Split(redirectAllowlist, ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return &Client{
		BaseURL:           baseURL,
		APIKey:            apiKey,
		redirectAllowlist: prefixes,
		enforceAllowlist:  enforceAllowlist,
		client:            &http.Client{Timeout: 30 * time.Second},
	}
}

// IsConfigured reports whether card payments can be offered.
func (c *Client) IsConfigured() bool {
	return c.APIKey != ""
}

// RedirectAllowed checks a success/cancel URL against the configured
// prefixes. With enforcement off (development) any URL passes.
func (c *Client) RedirectAllowed(raw string) bool {
	if !c.enforceAllowlist {
		return true
	}
	for _, prefix := range c.redirectAllowlist {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	return false
}

type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession opens a hosted checkout page for the order. Amount is
// converted to the currency's minor unit.
func (c *Client) CreateCheckoutSession(ctx context.Context, orderID uint, amount decimal.Decimal, currency, successURL, cancelURL string) (*Session, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("stripe is not configured")
	}
	if !c.RedirectAllowed(successURL) || !c.RedirectAllowed(cancelURL) {
		return nil, fmt.Errorf("redirect url not allowed")
	}
	minor := amount.Mul(decimal.NewFromInt(100)).Round(0).String()

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("client_reference_id", fmt.Sprintf("%d", orderID))
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(currency))
	form.Set("line_items[0][price_data][unit_amount]", minor)
	form.Set("line_items[0][price_data][product_data][name]", fmt.Sprintf("Order #%d", orderID))

	return c.do(ctx, http.MethodPost, "/v1/checkout/sessions", strings.NewReader(form.Encode()))
}

// GetSession fetches a session so the caller can verify payment_status before
// marking an order paid.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("stripe is not configured")
	}
	return c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("stripe: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("stripe: status %d", resp.StatusCode)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
