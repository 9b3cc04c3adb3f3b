package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gracemedia/storefront/internal/cart"
	"github.com/gracemedia/storefront/internal/catalog"
	"github.com/gracemedia/storefront/internal/checkout"
	"github.com/gracemedia/storefront/internal/donations"
	"github.com/gracemedia/storefront/internal/gateway"
	"github.com/gracemedia/storefront/internal/orders"
	"github.com/gracemedia/storefront/internal/submissions"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps domain sentinel errors to HTTP status codes.
// The message is meant to be shown to the visitor as-is (toast-style),
// so sentinels carry user-facing wording.
func handleServiceError(w http.ResponseWriter, err error) {
	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  vErr.First,
			Code:   "validation_failed",
			Fields: vErr.Fields,
		})
		return
	}

	var sErr *submissions.ValidationError
	if errors.As(err, &sErr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  sErr.Error(),
			Code:   "validation_failed",
			Fields: sErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "Your cart is empty. Add some books before checking out.")
	case errors.Is(err, donations.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount", "Please enter a donation amount greater than zero.")
	case errors.Is(err, catalog.ErrUnsupportedCurrency):
		respondError(w, http.StatusBadRequest, "unsupported_currency", "That currency is not supported.")
	case errors.Is(err, submissions.ErrUnknownKind):
		respondError(w, http.StatusBadRequest, "unknown_kind", "Unknown submission kind.")
	case errors.Is(err, cart.ErrMaxStockReached):
		respondError(w, http.StatusConflict, "max_stock_reached", "No more copies of this book are available.")
	case errors.Is(err, cart.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", "This book is out of stock.")
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", "This payment has already been settled.")
	case errors.Is(err, catalog.ErrBookNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, checkout.ErrSessionNotFound),
		errors.Is(err, donations.ErrDonationNotFound),
		errors.Is(err, orders.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, gateway.ErrGatewayDisabled):
		respondError(w, http.StatusServiceUnavailable, "gateway_disabled", "This payment method is temporarily unavailable.")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
