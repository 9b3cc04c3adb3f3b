package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gracemedia/storefront/internal/cart"
	"github.com/gracemedia/storefront/internal/customer"
	"github.com/gracemedia/storefront/internal/gateway"
	"github.com/gracemedia/storefront/internal/pricing"
)

// InitiateResult is handed back to the client so it can open the
// payment widget for the created gateway order.
type InitiateResult struct {
	SessionID    uuid.UUID      `json:"session_id"`
	TRN          string         `json:"trn"`
	Totals       pricing.Totals `json:"totals"`
	GatewayOrder *gateway.Order `json:"gateway_order"`
}

// Initiate runs one checkout attempt up to the suspension point:
// validate cart and customer details, snapshot the cart with totals,
// issue a TRN, create the gateway-side order, and persist the session
// as AWAITING_PAYMENT. The caller is expected to have authenticated
// the user already; an unauthenticated attempt never reaches here.
func (s *Service) Initiate(ctx context.Context, userID string, details customer.Details) (*InitiateResult, error) {
	c, err := s.cart.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	if errs := customer.Validate(details); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs, First: customer.FirstError(errs)}
	}

	snapshot := buildSnapshot(c, details, s.pricing)

	gw, err := s.gateways.ForCurrency(c.Currency)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:       uuid.New(),
		UserID:   userID,
		TRN:      s.newTRN(),
		Gateway:  gw.Name(),
		Currency: c.Currency,
		Amount:   snapshot.Totals.Total,
		Snapshot: snapshot,
		Status:   StatusInitiated,
	}

	gatewayOrder, err := gw.CreateOrder(ctx, gateway.CreateOrderRequest{
		TRN:      session.TRN,
		Amount:   session.Amount,
		Currency: session.Currency,
		Customer: gateway.Prefill{
			Name:  details.Name,
			Email: details.Email,
			Phone: details.Phone,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}
	session.GatewayOrderID = gatewayOrder.GatewayOrderID
	session.Status = StatusAwaitingPayment

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &InitiateResult{
		SessionID:    session.ID,
		TRN:          session.TRN,
		Totals:       snapshot.Totals,
		GatewayOrder: gatewayOrder,
	}, nil
}

// buildSnapshot freezes the cart lines and totals at checkout time.
func buildSnapshot(c *cart.Cart, details customer.Details, cfg pricing.Config) Snapshot {
	lines := make([]SnapshotLine, 0, len(c.Lines))
	priced := make([]pricing.Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, SnapshotLine{
			BookID:   l.BookID,
			Title:    l.Title,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
		priced = append(priced, pricing.Line{Price: l.Price, Quantity: l.Quantity})
	}

	return Snapshot{
		Lines:      lines,
		Customer:   details,
		Totals:     cfg.Compute(priced, details.State),
		Currency:   c.Currency,
		CapturedAt: time.Now(),
	}
}
