package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gracemedia/storefront/internal/cart"
	"github.com/gracemedia/storefront/internal/settings"
)

// CartService is the cart surface the handlers need.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*cart.Cart, error)
	AddItem(ctx context.Context, userID, bookID string) (*cart.Cart, error)
	UpdateQuantity(ctx context.Context, userID, bookID string, delta int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, userID, bookID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string) error
	SetCurrency(ctx context.Context, userID, currency string) (*cart.Cart, []string, error)
}

type CartHandler struct {
	carts CartService
	prefs *settings.Store
}

func NewCartHandler(carts CartService, prefs *settings.Store) *CartHandler {
	return &CartHandler{carts: carts, prefs: prefs}
}

type AddItemRequestDTO struct {
	BookID string `json:"book_id"`
}

type UpdateQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type SetCurrencyRequestDTO struct {
	Currency string `json:"currency"`
}

// CartResponseDTO wraps the cart with the stale price ids a currency
// switch could not re-price, so the client can flag those lines.
type CartResponseDTO struct {
	Cart          *cart.Cart `json:"cart"`
	StalePriceIDs []string   `json:"stale_price_ids,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.GetCart(r.Context(), visitorID(w, r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.BookID == "" {
		respondError(w, http.StatusBadRequest, "invalid_book_id", "book_id is required")
		return
	}

	c, err := h.carts.AddItem(r.Context(), visitorID(w, r), req.BookID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "book_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must be non-zero")
		return
	}

	c, err := h.carts.UpdateQuantity(r.Context(), visitorID(w, r), bookID, req.Delta)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.RemoveItem(r.Context(), visitorID(w, r), chi.URLParam(r, "book_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), visitorID(w, r)); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *CartHandler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var req SetCurrencyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Currency == "" {
		respondError(w, http.StatusBadRequest, "invalid_currency", "currency is required")
		return
	}

	visitor := visitorID(w, r)
	c, staleIDs, err := h.carts.SetCurrency(r.Context(), visitor, req.Currency)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	current := h.prefs.Get(visitor)
	current.Currency = req.Currency
	h.prefs.Set(visitor, current)

	respondJSON(w, http.StatusOK, CartResponseDTO{Cart: c, StalePriceIDs: staleIDs})
}
