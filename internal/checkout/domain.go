package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/gracemedia/storefront/internal/customer"
	"github.com/gracemedia/storefront/internal/pricing"
)

// SnapshotLine is one cart line frozen at checkout time with its
// price-at-purchase.
type SnapshotLine struct {
	BookID   string  `json:"book_id"`
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Snapshot is the full cart and customer state captured when checkout
// begins; orders are built from this, never from the live cart.
type Snapshot struct {
	Lines      []SnapshotLine   `json:"lines"`
	Customer   customer.Details `json:"customer"`
	Totals     pricing.Totals   `json:"totals"`
	Currency   string           `json:"currency"`
	CapturedAt time.Time        `json:"captured_at"`
}

// Session is one checkout attempt, persisted across the wait for the
// payment widget's callback.
type Session struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id"`
	TRN            string    `json:"trn"`
	Gateway        string    `json:"gateway"`
	GatewayOrderID string    `json:"gateway_order_id"`
	PaymentID      string    `json:"payment_id,omitempty"`
	Currency       string    `json:"currency"`
	Amount         float64   `json:"amount"`
	Snapshot       Snapshot  `json:"snapshot"`
	Status         Status    `json:"status"`
	FailureReason  string    `json:"failure_reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
