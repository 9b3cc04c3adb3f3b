package donations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gracemedia/storefront/internal/checkout"
)

type Repository interface {
	CreateDonation(ctx context.Context, d *Donation) error
	GetDonation(ctx context.Context, id uuid.UUID) (*Donation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status checkout.Status) error
	SetPayment(ctx context.Context, id uuid.UUID, status checkout.Status, paymentID string) error
	SetFailure(ctx context.Context, id uuid.UUID, reason string) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateDonation(ctx context.Context, d *Donation) error {
	query := `INSERT INTO donations
		(id, trn, user_id, donor_name, email, phone, country, amount, currency,
		 gateway, gateway_order_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.TRN,
		d.UserID,
		d.DonorName,
		d.Email,
		d.Phone,
		d.Country,
		d.Amount,
		d.Currency,
		d.Gateway,
		d.GatewayOrderID,
		d.Status)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetDonation(ctx context.Context, id uuid.UUID) (*Donation, error) {
	query := `SELECT id, trn, user_id, donor_name, email, phone, country, amount, currency,
	                 gateway, gateway_order_id, COALESCE(payment_id, ''), status,
	                 COALESCE(failure_reason, ''), created_at, updated_at
	          FROM donations WHERE id = $1`

	var d Donation
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.TRN,
		&d.UserID,
		&d.DonorName,
		&d.Email,
		&d.Phone,
		&d.Country,
		&d.Amount,
		&d.Currency,
		&d.Gateway,
		&d.GatewayOrderID,
		&d.PaymentID,
		&d.Status,
		&d.FailureReason,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDonationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query donation: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status checkout.Status) error {
	query := `UPDATE donations SET status = $1, updated_at = NOW() WHERE id = $2`
	return r.exec(ctx, query, status, id)
}

func (r *PostgresRepository) SetPayment(ctx context.Context, id uuid.UUID, status checkout.Status, paymentID string) error {
	query := `UPDATE donations SET status = $1, payment_id = $2, updated_at = NOW() WHERE id = $3`
	return r.exec(ctx, query, status, paymentID, id)
}

func (r *PostgresRepository) SetFailure(ctx context.Context, id uuid.UUID, reason string) error {
	query := `UPDATE donations SET status = $1, failure_reason = $2, updated_at = NOW() WHERE id = $3`
	return r.exec(ctx, query, checkout.StatusFailed, reason, id)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update donation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update donation: %w", err)
	}
	if affected == 0 {
		return ErrDonationNotFound
	}
	return nil
}
