package donations

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gracemedia/storefront/internal/checkout"
)

var (
	ErrInvalidAmount    = errors.New("donation amount must be greater than zero")
	ErrDonationNotFound = errors.New("donation not found")
)

// Donor holds the contact fields collected on the donation form. Unlike
// checkout there is no shipping, so address and pincode are not asked for.
type Donor struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

// Donation is a single gift moving through the same status machine as a
// checkout session.
type Donation struct {
	ID             uuid.UUID       `json:"id"`
	TRN            string          `json:"trn"`
	UserID         string          `json:"user_id"`
	DonorName      string          `json:"donor_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Country        string          `json:"country"`
	Amount         float64         `json:"amount"`
	Currency       string          `json:"currency"`
	Gateway        string          `json:"gateway"`
	GatewayOrderID string          `json:"gateway_order_id"`
	PaymentID      string          `json:"payment_id,omitempty"`
	Status         checkout.Status `json:"status"`
	FailureReason  string          `json:"failure_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
