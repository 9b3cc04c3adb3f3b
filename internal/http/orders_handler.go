package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gracemedia/storefront/internal/orders"
)

// OrderReader is the order history surface the handlers need.
type OrderReader interface {
	GetOrderByTRN(ctx context.Context, trn string) (*orders.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*orders.Order, error)
}

type OrdersHandler struct {
	orders OrderReader
}

func NewOrdersHandler(orderReader OrderReader) *OrdersHandler {
	return &OrdersHandler{orders: orderReader}
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "login_required", "Please log in to see your orders.")
		return
	}

	result, err := h.orders.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if result == nil {
		result = []*orders.Order{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": result})
}

func (h *OrdersHandler) GetByTRN(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "login_required", "Please log in to see your orders.")
		return
	}

	order, err := h.orders.GetOrderByTRN(r.Context(), chi.URLParam(r, "trn"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if order.UserID != userID {
		// Don't leak whether the TRN exists.
		respondError(w, http.StatusNotFound, "not_found", orders.ErrOrderNotFound.Error())
		return
	}
	respondJSON(w, http.StatusOK, order)
}
