package kafka

import (
	"context"
	"database/sql"
)

const outboxDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id             UUID PRIMARY KEY,
	request_id     TEXT,
	aggregate_type VARCHAR(64)  NOT NULL,
	aggregate_id   UUID         NOT NULL,
	event_type     VARCHAR(128) NOT NULL,
	topic          VARCHAR(255) NOT NULL,
	payload        JSONB        NOT NULL,
	status         VARCHAR(16)  NOT NULL DEFAULT 'pending',
	retry_count    INT          NOT NULL DEFAULT 0,
	error_message  TEXT,
	next_retry_at  TIMESTAMPTZ,
	processed_at   TIMESTAMPTZ,
	created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_status_next_retry
	ON outbox_events (status, next_retry_at);
`

// EnsureOutboxTable creates the outbox table on PostgreSQL if needed.
func EnsureOutboxTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, outboxDDL)
	return err
}
