package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-ems/internal/config"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka/consumer"
	"go-ems/internal/payroll"
	"go-ems/internal/payslip"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewArchive picks the payslip archive named by PAYSLIP_ARCHIVE_DRIVER.
func NewArchive(ctx context.Context, cfg config.PayslipConfig) (payslip.Archive, error) {
	switch cfg.ArchiveDriver {
	case "s3":
		return payslip.NewS3Archive(ctx, payslip.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Prefix:    cfg.S3Prefix,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	case "local", "":
		return payslip.NewLocalArchive(cfg.ArchiveDir), nil
	default:
		return nil, fmt.Errorf("unknown payslip archive driver %q", cfg.ArchiveDriver)
	}
}

// RunConsumer archives a payslip for every salary.generated event until
// SIGINT/SIGTERM.
func RunConsumer(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

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

	archive, err := NewArchive(ctx, cfg.Payslip)
	if err != nil {
		return err
	}

	payrollService := payroll.NewService(
		sqlDB,
		payroll.NewRepository(gormDB),
		payslip.NewPDFRenderer(cfg.Payslip.CurrencyPrefix),
		logger,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.SalaryGeneratedTopic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumeSalaryGenerated(ctx, reader, consumer.NewPayslipArchiver(payrollService, archive), log)

	log.Info("consumer shut down")
	return nil
}
