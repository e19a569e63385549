package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-ems/internal/config"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/messaging/kafka/producer"
	"go-ems/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox rows to Kafka until SIGINT/SIGTERM.
func RunWorker(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	if !cfg.Kafka.Enabled() {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, closeDB, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := kafka.EnsureOutboxTable(ctx, sqlDB); err != nil {
		return err
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	producer.ProcessOutboxEvents(
		ctx,
		kafka.NewOutboxRepository(sqlDB),
		kafkaWriter,
		log,
		cfg.Kafka.RelayInterval,
	)

	log.Info("worker shut down")
	return nil
}
