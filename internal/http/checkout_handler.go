package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gracemedia/storefront/internal/cache"
	"github.com/gracemedia/storefront/internal/checkout"
	"github.com/gracemedia/storefront/internal/customer"
	"github.com/gracemedia/storefront/internal/orders"
)

// CheckoutService is the orchestrator surface the handlers need.
type CheckoutService interface {
	Initiate(ctx context.Context, userID string, details customer.Details) (*checkout.InitiateResult, error)
	ConfirmPayment(ctx context.Context, sessionID uuid.UUID, paymentRef string) (*orders.Order, error)
	CancelPayment(ctx context.Context, sessionID uuid.UUID) error
	FailPayment(ctx context.Context, sessionID uuid.UUID, reason string) error
}

// Redirects remembers where an unauthenticated visitor was headed and
// hands the destination back exactly once after login.
type Redirects interface {
	Save(ctx context.Context, sessionID, path string) error
	Take(ctx context.Context, sessionID string) (string, error)
}

type CheckoutHandler struct {
	checkout  CheckoutService
	redirects Redirects
}

func NewCheckoutHandler(checkoutSvc CheckoutService, redirects Redirects) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkoutSvc, redirects: redirects}
}

type InitiateRequestDTO struct {
	Customer customer.Details `json:"customer"`
}

type ConfirmRequestDTO struct {
	PaymentRef string `json:"payment_ref"`
}

type FailRequestDTO struct {
	Reason string `json:"reason"`
}

// Initiate requires a logged-in user. A guest gets a 401 after their
// intended destination is stored, so login can bounce them back; the
// checkout attempt itself is not suspended and must be restarted.
func (h *CheckoutHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		if err := h.redirects.Save(r.Context(), visitorID(w, r), "/checkout"); err != nil {
			log.Printf("failed to save pending redirect: %v", err)
		}
		respondError(w, http.StatusUnauthorized, "login_required", "Please log in to complete your purchase.")
		return
	}

	var req InitiateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.checkout.Initiate(r.Context(), userID, req.Customer)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// PendingRedirect returns and clears the destination stored when this
// visitor hit the login wall, so the client can resume after login.
// Keyed by the guest session cookie, which survives authentication.
func (h *CheckoutHandler) PendingRedirect(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		respondError(w, http.StatusNotFound, "no_redirect", "no pending redirect")
		return
	}

	path, err := h.redirects.Take(r.Context(), c.Value)
	if errors.Is(err, cache.ErrNoRedirect) {
		respondError(w, http.StatusNotFound, "no_redirect", "no pending redirect")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"redirect": path})
}

func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
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

	order, err := h.checkout.ConfirmPayment(r.Context(), sessionID, req.PaymentRef)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	if err := h.checkout.CancelPayment(r.Context(), sessionID); err != nil {
		handleServiceError(w, err)
		return
	}
	// Not an error: nothing was charged and the cart is untouched.
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  string(checkout.StatusCancelled),
		"message": "Payment cancelled. No charge occurred and your cart is unchanged.",
	})
}

func (h *CheckoutHandler) Fail(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req FailRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.checkout.FailPayment(r.Context(), sessionID, req.Reason); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(checkout.StatusFailed)})
}

func sessionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
