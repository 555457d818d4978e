package ninjavan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the Ninja Van order API for carrier-managed shipments.
// Manual shipments never touch this client.
type Client struct {
	BaseURL  string
	APIToken string
	client   *http.Client
}

func New(baseURL, apiToken string) *Client {
	if baseURL == "" {
		baseURL = "https://api.ninjavan.co/ph"
	}
	return &Client{
		BaseURL:  baseURL,
		APIToken: apiToken,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) IsConfigured() bool {
	return c.APIToken != ""
}

type Address struct {
	Name     string `json:"name"`
	Phone    string `json:"phone_number"`
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Province string `json:"province"`
	PostCode string `json:"post_code"`
	Country  string `json:"country"`
}

type CreateOrderRequest struct {
	RequestedTrackingNumber string  `json:"requested_tracking_number,omitempty"`
	ServiceType             string  `json:"service_type"`
	ServiceLevel            string  `json:"service_level"`
	Reference               string  `json:"merchant_order_number"`
	From                    Address `json:"from"`
	To                      Address `json:"to"`
}

type Order struct {
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
	Reference      string `json:"merchant_order_number"`
}

type TrackingEvent struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

func (c *Client) CreateOrder(ctx context.Context, in CreateOrderRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/4.2/orders", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, trackingNumber string) (*Order, error) {
	var out Order
	path := "/4.2/orders/" + url.PathEscape(trackingNumber)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, trackingNumber string) error {
	path := "/2.2/orders/" + url.PathEscape(trackingNumber)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) Track(ctx context.Context, trackingNumber string) ([]TrackingEvent, error) {
	var out struct {
		Events []TrackingEvent `json:"events"`
	}
	path := "/1.0/tracking/" + url.PathEscape(trackingNumber) + "/events"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if !c.IsConfigured() {
		return fmt.Errorf("ninjavan is not configured")
	}
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ninjavan: status %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
