// Package config reads runtime settings from the environment, after
// loading an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Payslip  PayslipConfig
	Seed     SeedConfig
}

type AppConfig struct {
	Env  string
	Name string
}

func (a AppConfig) IsProduction() bool { return a.Env == "production" }

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimit       float64
	RateBurst       int
}

type DatabaseConfig struct {
	Host        string
	User        string
	Password    string
	Name        string
	Port        string
	SSLMode     string
	MaxRetries  int
	AutoMigrate bool
}

type RedisConfig struct {
	Addr     string
	Password string
}

// Enabled is false when no address is configured; caching and
// idempotency are skipped then.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type KafkaConfig struct {
	Broker        string
	GroupID       string
	RelayInterval time.Duration
}

func (k KafkaConfig) Enabled() bool { return k.Broker != "" }

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type PayslipConfig struct {
	CurrencyPrefix string
	ArchiveDriver  string // "local" or "s3"
	ArchiveDir     string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3Prefix       string
	// Static keys are only needed for S3-compatible endpoints; otherwise
	// the default AWS credential chain applies.
	S3AccessKey string
	S3SecretKey string
}

type SeedConfig struct {
	DemoData        bool
	DefaultPassword string
}

var requiredKeys = []string{"DB_HOST", "DB_USER", "DB_NAME"}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := Config{
		App: AppConfig{
			Env:  getEnv("APP_ENV", "development"),
			Name: getEnv("APP_NAME", "go-ems"),
		},
		HTTP: HTTPConfig{
			Port:            getEnv("PORT", "3000"),
			ReadTimeout:     getDuration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimit:       getFloat("RATE_LIMIT_RPS", 10),
			RateBurst:       getInt("RATE_LIMIT_BURST", 20),
		},
		Database: DatabaseConfig{
			Host:        os.Getenv("DB_HOST"),
			User:        os.Getenv("DB_USER"),
			Password:    os.Getenv("DB_PASSWORD"),
			Name:        os.Getenv("DB_NAME"),
			Port:        getEnv("DB_PORT", "5432"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxRetries:  getInt("DB_MAX_RETRIES", 5),
			AutoMigrate: getBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Kafka: KafkaConfig{
			Broker:        os.Getenv("KAFKA_BROKER"),
			GroupID:       getEnv("KAFKA_GROUP_ID", "go-ems-payslip-archive"),
			RelayInterval: getDuration("OUTBOX_RELAY_INTERVAL", 3*time.Second),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			TTL:    getDuration("JWT_TTL", 24*time.Hour),
		},
		Payslip: PayslipConfig{
			CurrencyPrefix: getEnv("PAYSLIP_CURRENCY_PREFIX", "Rs. "),
			ArchiveDriver:  getEnv("PAYSLIP_ARCHIVE_DRIVER", "local"),
			ArchiveDir:     getEnv("PAYSLIP_ARCHIVE_DIR", "payslips"),
			S3Bucket:       os.Getenv("PAYSLIP_S3_BUCKET"),
			S3Region:       getEnv("AWS_REGION", "us-east-1"),
			S3Endpoint:     os.Getenv("PAYSLIP_S3_ENDPOINT"),
			S3Prefix:       getEnv("PAYSLIP_S3_PREFIX", "payslips/"),
			S3AccessKey:    os.Getenv("PAYSLIP_S3_ACCESS_KEY"),
			S3SecretKey:    os.Getenv("PAYSLIP_S3_SECRET_KEY"),
		},
		Seed: SeedConfig{
			DemoData:        getBool("SEED_DEMO_DATA", false),
			DefaultPassword: getEnv("DEFAULT_PASSWORD", "password123"),
		},
	}

	if cfg.Payslip.ArchiveDriver != "local" && cfg.Payslip.ArchiveDriver != "s3" {
		return Config{}, fmt.Errorf("PAYSLIP_ARCHIVE_DRIVER must be local or s3, got %q", cfg.Payslip.ArchiveDriver)
	}
	if cfg.Payslip.ArchiveDriver == "s3" && cfg.Payslip.S3Bucket == "" {
		return Config{}, fmt.Errorf("PAYSLIP_S3_BUCKET is required when PAYSLIP_ARCHIVE_DRIVER=s3")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
