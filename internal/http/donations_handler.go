package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/gracemedia/storefront/internal/checkout"
	"github.com/gracemedia/storefront/internal/donations"
)

// DonationService is the donation flow surface the handlers need.
type DonationService interface {
	Initiate(ctx context.Context, userID string, req donations.Request) (*donations.InitiateResult, error)
	ConfirmPayment(ctx context.Context, donationID uuid.UUID, paymentRef string) (*donations.Donation, error)
	CancelPayment(ctx context.Context, donationID uuid.UUID) error
	FailPayment(ctx context.Context, donationID uuid.UUID, reason string) error
}

type DonationsHandler struct {
	donations DonationService
}

func NewDonationsHandler(donationSvc DonationService) *DonationsHandler {
	return &DonationsHandler{donations: donationSvc}
}

// Initiate accepts gifts from guests too; the donor fields on the form
// identify them.
func (h *DonationsHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req donations.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.donations.Initiate(r.Context(), visitorID(w, r), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *DonationsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	donationID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req ConfirmRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentRef == "" {
		respondError(w, http.StatusBadRequest, "invalid_payment_ref", "payment_ref is required")
		return
	}

	donation, err := h.donations.ConfirmPayment(r.Context(), donationID, req.PaymentRef)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, donation)
}

func (h *DonationsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	donationID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	if err := h.donations.CancelPayment(r.Context(), donationID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  string(checkout.StatusCancelled),
		"message": "Donation cancelled. No charge occurred.",
	})
}

func (h *DonationsHandler) Fail(w http.ResponseWriter, r *http.Request) {
	donationID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req FailRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.donations.FailPayment(r.Context(), donationID, req.Reason); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(checkout.StatusFailed)})
}
