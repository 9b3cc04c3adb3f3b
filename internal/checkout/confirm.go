package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gracemedia/storefront/internal/orders"
)

// EventOrderCompleted triggers invoice generation and the confirmation
// email downstream.
const EventOrderCompleted = "order.completed"

// ConfirmPayment handles the widget's success callback. paymentRef is
// the razorpay_payment_id for Razorpay, or the PayPal order id to be
// captured. Order and item rows are written in one transaction; the
// invoice/email outbox write and the cart clear are best-effort.
func (s *Service) ConfirmPayment(ctx context.Context, sessionID uuid.UUID, paymentRef string) (*orders.Order, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !CanTransitionTo(session.Status, StatusPaymentCompleted) {
		return nil, ErrIllegalTransition
	}

	gw, err := s.gateways.ForCurrency(session.Currency)
	if err != nil {
		return nil, err
	}
	paymentID, err := gw.Capture(ctx, paymentRef)
	if err != nil {
		s.fail(ctx, session.ID, fmt.Sprintf("capture failed: %v", err))
		return nil, err
	}

	if err := s.repo.SetPayment(ctx, session.ID, StatusPaymentCompleted, paymentID); err != nil {
		return nil, err
	}
	session.Status = StatusPaymentCompleted

	order := orderFromSession(session, paymentID)
	if err := s.orders.CreateOrderWithItems(ctx, order); err != nil {
		s.fail(ctx, session.ID, fmt.Sprintf("order creation failed: %v", err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, session.ID, StatusCompleted); err != nil {
		return nil, err
	}

	s.queueNotifications(ctx, session, order)

	if err := s.cart.Clear(ctx, session.UserID); err != nil {
		log.Printf("failed to clear cart for user %s after checkout: %v", session.UserID, err)
	}

	return order, nil
}

// fail moves the session to FAILED, logging if even that write fails.
func (s *Service) fail(ctx context.Context, id uuid.UUID, reason string) {
	if err := s.repo.SetFailure(ctx, id, reason); err != nil {
		log.Printf("failed to mark session %s as failed: %v", id, err)
	}
}

// queueNotifications writes the invoice/email event. Failures are
// logged and swallowed; they never block the success path.
func (s *Service) queueNotifications(ctx context.Context, session *Session, order *orders.Order) {
	payload, err := json.Marshal(map[string]interface{}{
		"trn":          order.TRN,
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"email":        order.Email,
		"total":        order.Total,
		"currency":     order.Currency,
		"completed_at": time.Now(),
	})
	if err != nil {
		log.Printf("failed to marshal notification payload for %s: %v", order.TRN, err)
		return
	}

	if err := s.outbox.Insert(ctx, EventOrderCompleted, payload); err != nil {
		log.Printf("failed to queue notifications for %s: %v", order.TRN, err)
	}
}

func orderFromSession(session *Session, paymentID string) *orders.Order {
	snap := session.Snapshot
	items := make([]orders.Item, len(snap.Lines))
	for i, l := range snap.Lines {
		items[i] = orders.Item{
			BookID:   l.BookID,
			Title:    l.Title,
			Quantity: l.Quantity,
			Price:    l.Price,
		}
	}

	return &orders.Order{
		ID:            uuid.New(),
		TRN:           session.TRN,
		UserID:        session.UserID,
		CustomerName:  snap.Customer.Name,
		Email:         snap.Customer.Email,
		Phone:         snap.Customer.Phone,
		Address:       snap.Customer.Address,
		City:          snap.Customer.City,
		State:         snap.Customer.State,
		Country:       snap.Customer.Country,
		Pincode:       snap.Customer.Pincode,
		Subtotal:      snap.Totals.Subtotal,
		Packaging:     snap.Totals.Packaging,
		CGST:          snap.Totals.Tax.CGST,
		SGST:          snap.Totals.Tax.SGST,
		IGST:          snap.Totals.Tax.IGST,
		Total:         snap.Totals.Total,
		Currency:      session.Currency,
		PaymentMethod: session.Gateway,
		PaymentID:     paymentID,
		Status:        orders.StatusPaid,
		Items:         items,
	}
}
