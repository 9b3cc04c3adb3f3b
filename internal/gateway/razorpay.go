package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

const defaultRazorpayBaseURL = "https://api.razorpay.com"

type RazorpayConfig struct {
	Enabled   bool
	KeyID     string
	KeySecret string
	BaseURL   string // overridable for tests
}

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"` // paise
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Razorpay creates orders against the Razorpay Orders API. The payment
// itself completes in the checkout widget, which hands the payment id
// to our success callback, so Capture is a no-op.
type Razorpay struct {
	cfg     RazorpayConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewRazorpay(cfg RazorpayConfig) *Razorpay {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultRazorpayBaseURL
	}
	return &Razorpay{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "razorpay",
			Timeout: 30 * time.Second,
		}),
	}
}

func (r *Razorpay) Name() string { return NameRazorpay }

func (r *Razorpay) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	body := razorpayOrderRequest{
		Amount:   int64(math.Round(req.Amount * 100)),
		Currency: req.Currency,
		Receipt:  req.TRN,
		Notes: map[string]string{
			"customer_name": req.Customer.Name,
		},
	}

	data, err := r.post(ctx, "/v1/orders", body)
	if err != nil {
		return nil, err
	}

	var resp razorpayOrderResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse razorpay order response: %w", err)
	}

	return &Order{
		Gateway:        NameRazorpay,
		GatewayOrderID: resp.ID,
		Amount:         req.Amount,
		Currency:       resp.Currency,
		ClientKey:      r.cfg.KeyID,
	}, nil
}

// Capture is a no-op: the Razorpay widget delivers razorpay_payment_id
// directly in its success handler.
func (r *Razorpay) Capture(_ context.Context, gatewayOrderID string) (string, error) {
	return gatewayOrderID, nil
}

func (r *Razorpay) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return r.breaker.Execute(func() ([]byte, error) {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.SetBasicAuth(r.cfg.KeyID, r.cfg.KeySecret)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := r.client.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("razorpay request failed: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read razorpay response: %w", err)
		}

		if resp.StatusCode >= 400 {
			var apiErr razorpayErrorResponse
			if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Description != "" {
				return nil, fmt.Errorf("%w: %s", ErrGatewayRejected, apiErr.Error.Description)
			}
			return nil, fmt.Errorf("%w: status %d", ErrGatewayRejected, resp.StatusCode)
		}

		return data, nil
	})
}
