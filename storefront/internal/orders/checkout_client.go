package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// IntentRequester asks the checkout backend for the secrets needed to present
// a payment sheet.
type IntentRequester interface {
	RequestIntent(ctx context.Context, price decimal.Decimal, email string) (*IntentResponse, error)
}

type IntentResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	PaymentIntent string `json:"paymentIntent"`
	EphemeralKey  string `json:"ephemeralKey"`
	Customer      string `json:"customer"`
}

type checkoutRequest struct {
	Price json.Number `json:"price"`
	Email string      `json:"email,omitempty"`
}

type CheckoutClient struct {
	url  string
	http *http.Client
}

func NewCheckoutClient(baseURL string, timeout time.Duration) *CheckoutClient {
	return &CheckoutClient{
		url: strings.TrimRight(baseURL, "/") + "/api/checkout",
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// RequestIntent posts {price, email} to the checkout backend. The price is
// sent as a JSON number with two decimals.
func (c *CheckoutClient) RequestIntent(ctx context.Context, price decimal.Decimal, email string) (*IntentResponse, error) {
	body, err := json.Marshal(checkoutRequest{
		Price: json.Number(price.StringFixed(2)),
		Email: email,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	var out IntentResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && out.Message != "" {
			return nil, fmt.Errorf("%w: checkout backend returned %d: %s", ErrNetwork, resp.StatusCode, out.Message)
		}
		return nil, fmt.Errorf("%w: checkout backend returned %d", ErrNetwork, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode checkout response: %w", ErrNetwork, decodeErr)
	}
	if out.PaymentIntent == "" || out.EphemeralKey == "" || out.Customer == "" {
		return nil, ErrInvalidIntent
	}
	return &out, nil
}
