// Package app wires configuration and infrastructure into the API, the
// outbox relay worker and the payslip archive consumer.
package app

import (
	"context"
	"errors"

	"go-ems/internal/config"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/payslip"
	"go-ems/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func postgresConfig(cfg config.DatabaseConfig) connection.PostgresConfig {
	return connection.PostgresConfig{
		Host:     cfg.Host,
		User:     cfg.User,
		Password: cfg.Password,
		Name:     cfg.Name,
		Port:     cfg.Port,
		SSLMode:  cfg.SSLMode,
	}
}

// BuildApp connects the stores and returns the router plus a cleanup func
// that closes them.
func BuildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	if cfg.JWT.Secret == "" {
		return nil, nil, errors.New("JWT_SECRET is required")
	}

	gormDB, closeDB, err := connectDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	closers := []func(){closeDB}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Password, 5)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
	} else {
		logger.Warn("REDIS_ADDR not set; caching and idempotency keys disabled")
	}

	if cfg.Database.AutoMigrate {
		if err := Migrate(ctx, gormDB, true); err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.Info("database schema migrated")
	}

	if cfg.Seed.DemoData {
		if err := SeedDemoData(ctx, gormDB, cfg.Seed.DefaultPassword, logger); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	var outbox kafka.OutboxRepository
	if cfg.Kafka.Enabled() {
		outbox = kafka.NewOutboxRepository(sqlDB)
	}

	router, err := NewRouter(Dependencies{
		DB:       gormDB,
		Redis:    rdb,
		Outbox:   outbox,
		Renderer: payslip.NewPDFRenderer(cfg.Payslip.CurrencyPrefix),
		HTTP:     cfg.HTTP,
		JWT:      cfg.JWT,
		Seed:     cfg.Seed,
		Logger:   logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return router, cleanup, nil
}

func connectDB(cfg config.Config) (*gorm.DB, func(), error) {
	gormDB, err := connection.ConnectGORMWithRetry(postgresConfig(cfg.Database), cfg.Database.MaxRetries)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, func() { _ = sqlDB.Close() }, nil
}
