package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-ems/internal/events"
	"go-ems/internal/payslip"
	"go-ems/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// PayslipSource is satisfied by payroll.Service.
type PayslipSource interface {
	RenderPayslip(ctx context.Context, employeeID string, month, year int) (payslip.Document, error)
}

// ErrPoisonMessage marks a message that can never be processed.
var ErrPoisonMessage = errors.New("poison message")

// PayslipArchiver renders the payslip named by a salary.generated event and
// stores it. Transient failures are retried MaxAttempts times.
type PayslipArchiver struct {
	Source      PayslipSource
	Archive     payslip.Archive
	MaxAttempts int
	Backoff     time.Duration
}

func NewPayslipArchiver(source PayslipSource, archive payslip.Archive) *PayslipArchiver {
	return &PayslipArchiver{
		Source:      source,
		Archive:     archive,
		MaxAttempts: 3,
		Backoff:     2 * time.Second,
	}
}

// Handle returns the archive location, or an error wrapping ErrPoisonMessage
// for payloads and records that will never render.
func (a *PayslipArchiver) Handle(ctx context.Context, msg kafkago.Message) (string, error) {
	var event events.SalaryGeneratedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrPoisonMessage, err)
	}
	if event.EmployeeID == "" || event.Month < 1 || event.Month > 12 || event.Year <= 0 {
		return "", fmt.Errorf("%w: incomplete event for salary %q", ErrPoisonMessage, event.SalaryID)
	}

	attempts := a.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		location, err := a.archiveOnce(ctx, event)
		if err == nil {
			return location, nil
		}
		if isPermanent(err) {
			return "", fmt.Errorf("%w: %v", ErrPoisonMessage, err)
		}
		lastErr = err

		if i < attempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(a.Backoff * time.Duration(i)):
			}
		}
	}
	return "", fmt.Errorf("archive payslip after %d attempts: %w", attempts, lastErr)
}

func (a *PayslipArchiver) archiveOnce(ctx context.Context, event events.SalaryGeneratedEvent) (string, error) {
	doc, err := a.Source.RenderPayslip(ctx, event.EmployeeID, event.Month, event.Year)
	if err != nil {
		return "", err
	}
	return a.Archive.Store(ctx, payslip.ArchiveKey(event.Month, event.Year, doc.Filename), doc)
}

func isPermanent(err error) bool {
	switch apperror.CodeOf(err) {
	case apperror.CodeNotFound, apperror.CodeInvalidInput:
		return true
	}
	return false
}

// ConsumeSalaryGenerated runs until ctx is cancelled. Every message is
// committed once handled, including poison and exhausted ones, so a bad
// record never blocks the partition.
func ConsumeSalaryGenerated(
	ctx context.Context,
	reader MessageReader,
	archiver *PayslipArchiver,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.salary_payslip")
	log.Info("salary payslip consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("salary payslip consumer stopped")
				return
			}
			log.Error("fetch salary message failed", zap.Error(err))
			continue
		}

		location, err := archiver.Handle(ctx, msg)
		switch {
		case err == nil:
			log.Info("payslip archived",
				zap.String("key", string(msg.Key)),
				zap.String("location", location),
			)
		case errors.Is(err, ErrPoisonMessage):
			log.Warn("skipping poison salary message",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		case ctx.Err() != nil:
			log.Info("salary payslip consumer stopped")
			return
		default:
			log.Error("payslip archive failed, dropping message",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit salary message failed", zap.Error(err))
		}
	}
}
