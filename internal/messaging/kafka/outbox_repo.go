package kafka

import (
	"context"
	"database/sql"
	"time"
	"unicode/utf8"
)

const (
	// MaxOutboxAttempts is how many failed publishes a row survives before
	// it is parked as dead.
	MaxOutboxAttempts = 10

	outboxRetryBase    = 15 * time.Second
	outboxReasonMaxLen = 500
)

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

// OutboxRepository stores events in the same transaction as the business
// write; the worker relays them to Kafka afterwards.
type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type outboxRepository struct {
	db *sql.DB
	q  dbtx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db, q: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	if tx == nil {
		return r
	}
	return &outboxRepository{db: r.db, q: tx}
}

const insertOutboxEvent = `
INSERT INTO outbox_events (id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)`

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, insertOutboxEvent,
		event.ID, event.RequestID, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, event.Payload, event.Status,
	)
	return err
}

// Due rows only; dead and sent rows are never returned.
const selectDueOutboxEvents = `
SELECT id::text, COALESCE(request_id, ''), aggregate_type, aggregate_id::text, event_type,
	topic, payload, status, retry_count, COALESCE(next_retry_at, created_at)
FROM outbox_events
WHERE status IN ($1, $2)
	AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY created_at, id
LIMIT $3`

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.q.QueryContext(ctx, selectDueOutboxEvents, OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		err := rows.Scan(&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID, &e.EventType,
			&e.Topic, &e.Payload, &e.Status, &e.RetryCount, &e.NextRetryAt)
		if err != nil {
			return nil, err
		}
		due = append(due, e)
	}
	return due, rows.Err()
}

const markOutboxSent = `
UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1`

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, markOutboxSent, id, OutboxStatusSent)
	return err
}

// The delay doubles per attempt from $6 seconds, capped at 64x.
const markOutboxFailed = `
UPDATE outbox_events
SET retry_count = retry_count + 1,
	status = CASE WHEN retry_count + 1 >= $5 THEN $3::text ELSE $2::text END,
	error_message = $4,
	next_retry_at = NOW() + make_interval(secs => $6 * power(2, LEAST(retry_count, 6))),
	updated_at = NOW()
WHERE id = $1`

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := r.q.ExecContext(ctx, markOutboxFailed,
		id, OutboxStatusFailed, OutboxStatusDead, truncateReason(reason),
		MaxOutboxAttempts, outboxRetryBase.Seconds(),
	)
	return err
}

// truncateReason cuts on a rune boundary so the column never holds broken UTF-8.
func truncateReason(reason string) string {
	if len(reason) <= outboxReasonMaxLen {
		return reason
	}
	cut := outboxReasonMaxLen
	for cut > 0 && !utf8.RuneStart(reason[cut]) {
		cut--
	}
	return reason[:cut]
}
