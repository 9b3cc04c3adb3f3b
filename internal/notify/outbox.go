package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Event is one queued notification (invoice generation, confirmation
// email) awaiting publication.
type Event struct {
	ID        int
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// Outbox stores notification events until the poller publishes them.
type Outbox struct {
	db *sql.DB
}

func NewOutbox(db *sql.DB) *Outbox {
	return &Outbox{db: db}
}

func (o *Outbox) Insert(ctx context.Context, eventType string, payload []byte) error {
	query := `INSERT INTO outbox_events (event_type, payload, created_at) VALUES ($1, $2, NOW())`
	if _, err := o.db.ExecContext(ctx, query, eventType, payload); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

func (o *Outbox) GetUnprocessedEvents(ctx context.Context, limit int) ([]*Event, error) {
	query := `SELECT id, event_type, payload, created_at FROM outbox_events
	          WHERE processed_at IS NULL ORDER BY id LIMIT $1`

	rows, err := o.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

func (o *Outbox) MarkEventAsProcessed(ctx context.Context, id int) error {
	query := `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`
	if _, err := o.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark outbox event processed: %w", err)
	}
	return nil
}
