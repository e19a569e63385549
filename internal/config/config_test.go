package config_test

import (
	"testing"
	"time"

	"go-ems/internal/config"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "ems")
	t.Setenv("DB_NAME", "ems")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 5, cfg.Database.MaxRetries)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "Rs. ", cfg.Payslip.CurrencyPrefix)
	assert.Equal(t, "local", cfg.Payslip.ArchiveDriver)
	assert.Equal(t, "password123", cfg.Seed.DefaultPassword)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PAYSLIP_ARCHIVE_DRIVER", "s3")
	t.Setenv("PAYSLIP_S3_BUCKET", "ems-payslips")
	t.Setenv("SEED_DEMO_DATA", "true")

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "s3", cfg.Payslip.ArchiveDriver)
	assert.Equal(t, "ems-payslips", cfg.Payslip.S3Bucket)
	assert.True(t, cfg.Seed.DemoData)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "ems")
	t.Setenv("DB_NAME", "")

	_, err := config.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "DB_NAME")
}

func TestLoad_InvalidArchiveDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("PAYSLIP_ARCHIVE_DRIVER", "ftp")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	setRequired(t)
	t.Setenv("PAYSLIP_ARCHIVE_DRIVER", "s3")
	t.Setenv("PAYSLIP_S3_BUCKET", "")

	_, err := config.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PAYSLIP_S3_BUCKET")
}
