package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"bookinghub/internal/domain"
)

const defaultBaseURL = "https://api.razorpay.com"

// Credentials left at the .env.example placeholders count as missing;
// a deployment that never filled them in must not reach the live gateway.
const (
	placeholderKeyID     = "your_razorpay_key_id"
	placeholderKeySecret = "your_razorpay_key_secret"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
}

// NewClient returns a PaymentGateway that creates orders through the Razorpay
// Orders API. An empty baseURL falls back to the production endpoint.
func NewClient(httpClient *http.Client, baseURL, keyID, keySecret string) domain.PaymentGateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		httpClient: httpClient,
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
	}
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (c *client) CreateOrder(ctx context.Context, event *domain.Event, bookingReference, userID string) (*domain.PaymentOrder, error) {
	if c.keyID == "" || c.keySecret == "" ||
		c.keyID == placeholderKeyID || c.keySecret == placeholderKeySecret {
		return nil, domain.ErrGatewayNotConfigured
	}

	payload := orderRequest{
		Amount:   event.PriceMinorUnits(),
		Currency: event.Currency,
		Receipt:  bookingReference,
		Notes: map[string]string{
			"booking_reference": bookingReference,
			"event_id":          event.ID,
			"user_id":           userID,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	url := c.baseURL + "/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway returned status: %d", resp.StatusCode)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	return &domain.PaymentOrder{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    c.keyID,
	}, nil
}
