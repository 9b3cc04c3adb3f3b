package donations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gracemedia/storefront/internal/catalog"
	"github.com/gracemedia/storefront/internal/checkout"
	"github.com/gracemedia/storefront/internal/customer"
	"github.com/gracemedia/storefront/internal/gateway"
)

// EventDonationCompleted triggers the receipt email downstream.
const EventDonationCompleted = "donation.completed"

// Gateways resolves the payment processor for a currency.
type Gateways interface {
	ForCurrency(currency string) (gateway.Gateway, error)
}

// Outbox queues the receipt event for async delivery.
type Outbox interface {
	Insert(ctx context.Context, eventType string, payload []byte) error
}

// Request is one donation attempt from the form.
type Request struct {
	Donor    Donor   `json:"donor"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// InitiateResult is handed back to the client so it can open the
// payment widget for the created gateway order.
type InitiateResult struct {
	DonationID   uuid.UUID      `json:"donation_id"`
	TRN          string         `json:"trn"`
	Amount       float64        `json:"amount"`
	Currency     string         `json:"currency"`
	GatewayOrder *gateway.Order `json:"gateway_order"`
}

// Service runs the donation variant of checkout: no cart, a free-form
// amount, and the same widget callback trio.
type Service struct {
	repo     Repository
	gateways Gateways
	outbox   Outbox
	newTRN   func() string
}

func NewService(repo Repository, gateways Gateways, outbox Outbox) *Service {
	return &Service{
		repo:     repo,
		gateways: gateways,
		outbox:   outbox,
		newTRN:   checkout.NewTRN,
	}
}

// Initiate validates the donor and amount, issues a TRN, creates the
// gateway-side order, and persists the donation as AWAITING_PAYMENT.
func (s *Service) Initiate(ctx context.Context, userID string, req Request) (*InitiateResult, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	currency := req.Currency
	if currency == "" {
		currency = catalog.CurrencyINR
	}

	if errs := customer.ValidateContact(req.Donor.Name, req.Donor.Email, req.Donor.Phone, req.Donor.Country); len(errs) > 0 {
		return nil, &checkout.ValidationError{Fields: errs, First: customer.FirstError(errs)}
	}

	gw, err := s.gateways.ForCurrency(currency)
	if err != nil {
		return nil, err
	}

	donation := &Donation{
		ID:        uuid.New(),
		TRN:       s.newTRN(),
		UserID:    userID,
		DonorName: req.Donor.Name,
		Email:     req.Donor.Email,
		Phone:     req.Donor.Phone,
		Country:   req.Donor.Country,
		Amount:    req.Amount,
		Currency:  currency,
		Gateway:   gw.Name(),
		Status:    checkout.StatusInitiated,
	}

	gatewayOrder, err := gw.CreateOrder(ctx, gateway.CreateOrderRequest{
		TRN:      donation.TRN,
		Amount:   donation.Amount,
		Currency: donation.Currency,
		Customer: gateway.Prefill{
			Name:  req.Donor.Name,
			Email: req.Donor.Email,
			Phone: req.Donor.Phone,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}
	donation.GatewayOrderID = gatewayOrder.GatewayOrderID
	donation.Status = checkout.StatusAwaitingPayment

	if err := s.repo.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}

	return &InitiateResult{
		DonationID:   donation.ID,
		TRN:          donation.TRN,
		Amount:       donation.Amount,
		Currency:     donation.Currency,
		GatewayOrder: gatewayOrder,
	}, nil
}

// ConfirmPayment handles the widget's success callback: capture, mark
// completed, queue the receipt event.
func (s *Service) ConfirmPayment(ctx context.Context, donationID uuid.UUID, paymentRef string) (*Donation, error) {
	donation, err := s.repo.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if !checkout.CanTransitionTo(donation.Status, checkout.StatusPaymentCompleted) {
		return nil, checkout.ErrIllegalTransition
	}

	gw, err := s.gateways.ForCurrency(donation.Currency)
	if err != nil {
		return nil, err
	}
	paymentID, err := gw.Capture(ctx, paymentRef)
	if err != nil {
		s.fail(ctx, donation.ID, fmt.Sprintf("capture failed: %v", err))
		return nil, err
	}

	if err := s.repo.SetPayment(ctx, donation.ID, checkout.StatusPaymentCompleted, paymentID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, donation.ID, checkout.StatusCompleted); err != nil {
		return nil, err
	}
	donation.PaymentID = paymentID
	donation.Status = checkout.StatusCompleted

	s.queueReceipt(ctx, donation)

	return donation, nil
}

// CancelPayment handles the widget dismiss. Not an error, no charge
// occurred.
func (s *Service) CancelPayment(ctx context.Context, donationID uuid.UUID) error {
	donation, err := s.repo.GetDonation(ctx, donationID)
	if err != nil {
		return err
	}
	if !checkout.CanTransitionTo(donation.Status, checkout.StatusCancelled) {
		return checkout.ErrIllegalTransition
	}
	return s.repo.UpdateStatus(ctx, donationID, checkout.StatusCancelled)
}

// FailPayment handles the widget's error callback.
func (s *Service) FailPayment(ctx context.Context, donationID uuid.UUID, reason string) error {
	donation, err := s.repo.GetDonation(ctx, donationID)
	if err != nil {
		return err
	}
	if !checkout.CanTransitionTo(donation.Status, checkout.StatusFailed) {
		return checkout.ErrIllegalTransition
	}
	return s.repo.SetFailure(ctx, donationID, reason)
}

func (s *Service) GetDonation(ctx context.Context, donationID uuid.UUID) (*Donation, error) {
	return s.repo.GetDonation(ctx, donationID)
}

func (s *Service) fail(ctx context.Context, id uuid.UUID, reason string) {
	if err := s.repo.SetFailure(ctx, id, reason); err != nil {
		log.Printf("failed to mark donation %s as failed: %v", id, err)
	}
}

// queueReceipt writes the receipt event. Failures are logged and
// swallowed; they never block the success path.
func (s *Service) queueReceipt(ctx context.Context, d *Donation) {
	payload, err := json.Marshal(map[string]interface{}{
		"trn":          d.TRN,
		"donation_id":  d.ID,
		"donor_name":   d.DonorName,
		"email":        d.Email,
		"amount":       d.Amount,
		"currency":     d.Currency,
		"completed_at": time.Now(),
	})
	if err != nil {
		log.Printf("failed to marshal receipt payload for %s: %v", d.TRN, err)
		return
	}

	if err := s.outbox.Insert(ctx, EventDonationCompleted, payload); err != nil {
		log.Printf("failed to queue receipt for %s: %v", d.TRN, err)
	}
}
