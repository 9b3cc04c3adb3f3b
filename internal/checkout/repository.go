package checkout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	SetPayment(ctx context.Context, id uuid.UUID, status Status, paymentID string) error
	SetFailure(ctx context.Context, id uuid.UUID, reason string) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateSession(ctx context.Context, session *Session) error {
	snapshotJSON, err := json.Marshal(session.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	query := `INSERT INTO checkout_sessions
		(id, user_id, trn, gateway, gateway_order_id, currency, amount, snapshot, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

	_, err = r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.TRN,
		session.Gateway,
		session.GatewayOrderID,
		session.Currency,
		session.Amount,
		snapshotJSON,
		session.Status)
	if err != nil {
		return fmt.Errorf("insert checkout session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	query := `SELECT id, user_id, trn, gateway, gateway_order_id, COALESCE(payment_id, ''), currency, amount, snapshot, status,
	                 COALESCE(failure_reason, ''), created_at, updated_at
	          FROM checkout_sessions WHERE id = $1`

	var session Session
	var snapshotJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.TRN,
		&session.Gateway,
		&session.GatewayOrderID,
		&session.PaymentID,
		&session.Currency,
		&session.Amount,
		&snapshotJSON,
		&session.Status,
		&session.FailureReason,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query checkout session: %w", err)
	}

	if err := json.Unmarshal(snapshotJSON, &session.Snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal cart snapshot: %w", err)
	}

	return &session, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE checkout_sessions SET status = $1, updated_at = NOW() WHERE id = $2`
	return r.exec(ctx, query, status, id)
}

func (r *PostgresRepository) SetPayment(ctx context.Context, id uuid.UUID, status Status, paymentID string) error {
	query := `UPDATE checkout_sessions SET status = $1, payment_id = $2, updated_at = NOW() WHERE id = $3`
	return r.exec(ctx, query, status, paymentID, id)
}

func (r *PostgresRepository) SetFailure(ctx context.Context, id uuid.UUID, reason string) error {
	query := `UPDATE checkout_sessions SET status = $1, failure_reason = $2, updated_at = NOW() WHERE id = $3`
	return r.exec(ctx, query, StatusFailed, reason, id)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update checkout session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update checkout session: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
