package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

const defaultPayPalBaseURL = "https://api-m.paypal.com"

type PayPalConfig struct {
	Enabled  bool
	ClientID string
	Secret   string
	BaseURL  string // overridable for tests
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	Amount      paypalAmount `json:"amount"`
}

type paypalCreateOrderRequest struct {
	Intent        string               `json:"intent"`
	PurchaseUnits []paypalPurchaseUnit `json:"purchase_units"`
}

type paypalOrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// PayPal drives the v2 Checkout Orders API: create on dispatch, capture
// on approval. The capture id is the payment id recorded on the order.
type PayPal struct {
	cfg     PayPalConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewPayPal(cfg PayPalConfig) *PayPal {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultPayPalBaseURL
	}
	return &PayPal{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "paypal",
			Timeout: 30 * time.Second,
		}),
	}
}

func (p *PayPal) Name() string { return NamePayPal }

func (p *PayPal) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	body := paypalCreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{{
			ReferenceID: req.TRN,
			Amount: paypalAmount{
				CurrencyCode: req.Currency,
				Value:        strconv.FormatFloat(req.Amount, 'f', 2, 64),
			},
		}},
	}

	data, err := p.post(ctx, "/v2/checkout/orders", body)
	if err != nil {
		return nil, err
	}

	var resp paypalOrderResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse paypal order response: %w", err)
	}

	return &Order{
		Gateway:        NamePayPal,
		GatewayOrderID: resp.ID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		ClientKey:      p.cfg.ClientID,
	}, nil
}

// Capture settles an approved PayPal order and returns the capture id.
func (p *PayPal) Capture(ctx context.Context, gatewayOrderID string) (string, error) {
	data, err := p.post(ctx, fmt.Sprintf("/v2/checkout/orders/%s/capture", gatewayOrderID), struct{}{})
	if err != nil {
		return "", err
	}

	var resp paypalOrderResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse paypal capture response: %w", err)
	}

	if len(resp.PurchaseUnits) == 0 || len(resp.PurchaseUnits[0].Payments.Captures) == 0 {
		return "", fmt.Errorf("%w: capture missing from response", ErrGatewayRejected)
	}
	capture := resp.PurchaseUnits[0].Payments.Captures[0]
	if capture.Status != "COMPLETED" {
		return "", fmt.Errorf("%w: capture status %s", ErrGatewayRejected, capture.Status)
	}

	return capture.ID, nil
}

func (p *PayPal) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	return p.breaker.Execute(func() ([]byte, error) {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("paypal request failed: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read paypal response: %w", err)
		}

		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("%w: status %d", ErrGatewayRejected, resp.StatusCode)
		}

		return data, nil
	})
}

// accessToken returns a cached client-credentials token, refreshing it
// shortly before expiry.
func (p *PayPal) accessToken(ctx context.Context) (string, error) {
	p.tokenMu.Lock()
	defer p.tokenMu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		return p.token, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	httpReq.SetBasicAuth(p.cfg.ClientID, p.cfg.Secret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("paypal token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: token status %d", ErrGatewayRejected, resp.StatusCode)
	}

	var tok paypalTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to parse paypal token response: %w", err)
	}

	p.token = tok.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return p.token, nil
}
