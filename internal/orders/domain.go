package orders

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPaid       Status = "PAID"
	StatusCancelled  Status = "CANCELLED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
)

// Order is created only after payment succeeds; immutable afterwards
// except for status transitions.
type Order struct {
	ID            uuid.UUID `json:"id"`
	TRN           string    `json:"trn"`
	UserID        string    `json:"user_id"`
	CustomerName  string    `json:"customer_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Country       string    `json:"country"`
	Pincode       string    `json:"pincode"`
	Subtotal      float64   `json:"subtotal"`
	Packaging     float64   `json:"packaging_charge"`
	CGST          float64   `json:"cgst"`
	SGST          float64   `json:"sgst"`
	IGST          float64   `json:"igst"`
	Total         float64   `json:"total"`
	Currency      string    `json:"currency"`
	PaymentMethod string    `json:"payment_method"`
	PaymentID     string    `json:"payment_id"`
	Status        Status    `json:"status"`
	Items         []Item    `json:"items"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Item links an order to a catalog book with the price snapshotted at
// purchase time.
type Item struct {
	BookID   string  `json:"book_id"`
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
