package gateway

import (
	"context"
	"errors"
)

var (
	ErrGatewayDisabled = errors.New("payment gateway is not enabled for this currency")
	ErrGatewayRejected = errors.New("payment gateway rejected the request")
)

const (
	NameRazorpay = "razorpay"
	NamePayPal   = "paypal"
)

// CreateOrderRequest is the gateway-neutral order creation payload.
type CreateOrderRequest struct {
	TRN      string
	Amount   float64
	Currency string
	Customer Prefill
}

// Prefill is the customer data handed to the gateway widget.
type Prefill struct {
	Name  string
	Email string
	Phone string
}

// Order is the created gateway-side order, returned to the client so
// it can open the corresponding payment widget.
type Order struct {
	Gateway        string  `json:"gateway"`
	GatewayOrderID string  `json:"gateway_order_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	ClientKey      string  `json:"client_key,omitempty"` // public key id the widget needs
}

// Gateway is a thin adapter over one payment processor. CreateOrder
// registers the pending payment; Capture settles it after approval
// (a no-op for processors that settle in the success callback).
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	Capture(ctx context.Context, gatewayOrderID string) (string, error)
}
