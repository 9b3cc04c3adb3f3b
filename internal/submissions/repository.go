package submissions

import (
	"context"
	"database/sql"
	"fmt"
)

type Repository interface {
	Create(ctx context.Context, s *Submission) error
	ListByKind(ctx context.Context, kind string, limit int) ([]*Submission, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *Submission) error {
	query := `INSERT INTO submissions (id, kind, name, email, phone, message, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err := r.db.ExecContext(ctx, query, s.ID, s.Kind, s.Name, s.Email, s.Phone, s.Message)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByKind(ctx context.Context, kind string, limit int) ([]*Submission, error) {
	query := `SELECT id, kind, name, COALESCE(email, ''), COALESCE(phone, ''), message, created_at
	          FROM submissions WHERE kind = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var result []*Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.Kind, &s.Name, &s.Email, &s.Phone, &s.Message, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}
