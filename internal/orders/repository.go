package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrDuplicateTRN  = errors.New("an order with this TRN already exists")
)

type Repository interface {
	CreateOrderWithItems(ctx context.Context, order *Order) error
	GetOrderByTRN(ctx context.Context, trn string) (*Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateOrderWithItems inserts the order and all of its item rows in a
// single transaction. Item rows are written in cart order.
func (r *PostgresRepository) CreateOrderWithItems(ctx context.Context, order *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders
		(id, trn, user_id, customer_name, email, phone, address, city, state, country, pincode,
		 subtotal, packaging_charge, cgst, sgst, igst, total, currency, payment_method, payment_id, status,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, NOW(), NOW())`

	_, insertErr := tx.ExecContext(ctx, query,
		order.ID,
		order.TRN,
		order.UserID,
		order.CustomerName,
		order.Email,
		order.Phone,
		order.Address,
		order.City,
		order.State,
		order.Country,
		order.Pincode,
		order.Subtotal,
		order.Packaging,
		order.CGST,
		order.SGST,
		order.IGST,
		order.Total,
		order.Currency,
		order.PaymentMethod,
		order.PaymentID,
		order.Status)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateTRN
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	itemQuery := `INSERT INTO order_items (order_id, position, book_id, title, quantity, price)
	              VALUES ($1, $2, $3, $4, $5, $6)`
	for i, item := range order.Items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			order.ID, i, item.BookID, item.Title, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("insert order item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetOrderByTRN(ctx context.Context, trn string) (*Order, error) {
	query := `SELECT id, trn, user_id, customer_name, email, phone, address, city, state, country, pincode,
	                 subtotal, packaging_charge, cgst, sgst, igst, total, currency, payment_method, payment_id, status,
	                 created_at, updated_at
	          FROM orders WHERE trn = $1`

	var order Order
	err := r.db.QueryRowContext(ctx, query, trn).Scan(
		&order.ID, &order.TRN, &order.UserID, &order.CustomerName, &order.Email, &order.Phone,
		&order.Address, &order.City, &order.State, &order.Country, &order.Pincode,
		&order.Subtotal, &order.Packaging, &order.CGST, &order.SGST, &order.IGST, &order.Total,
		&order.Currency, &order.PaymentMethod, &order.PaymentID, &order.Status,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by trn: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *PostgresRepository) ListOrdersByUser(ctx context.Context, userID string) ([]*Order, error) {
	query := `SELECT id, trn, user_id, customer_name, email, phone, address, city, state, country, pincode,
	                 subtotal, packaging_charge, cgst, sgst, igst, total, currency, payment_method, payment_id, status,
	                 created_at, updated_at
	          FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user: %w", err)
	}
	defer rows.Close()

	var result []*Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(
			&order.ID, &order.TRN, &order.UserID, &order.CustomerName, &order.Email, &order.Phone,
			&order.Address, &order.City, &order.State, &order.Country, &order.Pincode,
			&order.Subtotal, &order.Packaging, &order.CGST, &order.SGST, &order.IGST, &order.Total,
			&order.Currency, &order.PaymentMethod, &order.PaymentID, &order.Status,
			&order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		result = append(result, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, order := range result {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]Item, error) {
	query := `SELECT book_id, title, quantity, price FROM order_items
	          WHERE order_id = $1 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.BookID, &item.Title, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}
