package kafka_test

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go-ems/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestNewOutboxEvent(t *testing.T) {
	event, err := kafka.NewOutboxEvent("rid-1", "employee", "emp-1", "employee.created", "topic.v1", map[string]string{"name": "Ada"})

	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	assert.JSONEq(t, `{"name":"Ada"}`, string(event.Payload))

	_, err = kafka.NewOutboxEvent("", "employee", "emp-1", "employee.created", "", map[string]string{})
	assert.Error(t, err)
}

func TestOutboxRepository_CreateUsesTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	event, _ := kafka.NewOutboxEvent("rid-1", "payroll", "sal-1", "payroll.salary.generated", "topic.v1", json.RawMessage(`{}`))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, "rid-1", "payroll", "sal-1", "payroll.salary.generated", "topic.v1", event.Payload, kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)
	assert.NoError(t, repo.WithTx(tx).Create(ctx, event))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at"}).
		AddRow("o-1", "rid-1", "employee", "emp-1", "employee.created", "topic.v1", []byte(`{}`), kafka.OutboxStatusPending, 0, now)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(rows)

	events, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 50)

	assert.NoError(t, err)
	if assert.Len(t, events, 1) {
		assert.Equal(t, "o-1", events[0].ID)
		assert.Equal(t, "rid-1", events[0].RequestID)
		assert.Equal(t, "employee.created", events[0].EventType)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	t.Run("records reason with backoff and dead-letter cap", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE outbox_events").
			WithArgs("o-1", kafka.OutboxStatusFailed, kafka.OutboxStatusDead, "broker down", kafka.MaxOutboxAttempts, float64(15)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "o-1", "broker down"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("long reason is cut on a rune boundary", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		reason := "x" + strings.Repeat("é", 400)
		mock.ExpectExec("UPDATE outbox_events").
			WithArgs("o-1", kafka.OutboxStatusFailed, kafka.OutboxStatusDead, validReason{max: 500}, kafka.MaxOutboxAttempts, float64(15)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "o-1", reason))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

type validReason struct{ max int }

func (v validReason) Match(arg driver.Value) bool {
	s, ok := arg.(string)
	return ok && len(s) <= v.max && len(s) > 0 && utf8.ValidString(s)
}

func TestOutboxRepository_MarkSentUsesTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("o-1", kafka.OutboxStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)
	assert.NoError(t, kafka.NewOutboxRepository(db).WithTx(tx).MarkSent(ctx, "o-1"))
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsInvalidEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	err = kafka.NewOutboxRepository(db).Create(context.Background(), kafka.OutboxEvent{
		ID:      "o-1",
		Topic:   "topic.v1",
		Payload: []byte(`{}`),
		Status:  kafka.OutboxStatusPending,
	})

	assert.ErrorContains(t, err, "aggregate id")
	assert.NoError(t, mock.ExpectationsWereMet())
}
