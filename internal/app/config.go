package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings shared by every order desk process.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	TemporalAddress   string `envconfig:"TEMPORAL_ADDRESS"`
	TemporalNamespace string `envconfig:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool   `envconfig:"TEMPORAL_DISABLED" default:"false"`

	KafkaBrokers          string `envconfig:"KAFKA_BROKERS"`
	KafkaOrderEventsTopic string `envconfig:"KAFKA_ORDER_EVENTS_TOPIC" default:"order-desk.orders.events"`

	RedisAddr           string `envconfig:"REDIS_ADDR"`
	IdempotencyTTLHours int    `envconfig:"IDEMPOTENCY_TTL_HOURS" default:"24"`

	LowStockThreshold     int `envconfig:"LOW_STOCK_THRESHOLD" default:"5"`
	QuotationValidityDays int `envconfig:"QUOTATION_VALIDITY_DAYS" default:"30"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.TemporalAddress == "" {
		cfg.TemporalAddress = client.DefaultHostPort
	}
	if cfg.TemporalNamespace == "" {
		cfg.TemporalNamespace = client.DefaultNamespace
	}
	cfg.PostgresDSN = strings.TrimSpace(cfg.PostgresDSN)
	if cfg.IdempotencyTTLHours <= 0 {
		return Config{}, fmt.Errorf("IDEMPOTENCY_TTL_HOURS must be a positive integer")
	}
	if cfg.LowStockThreshold < 0 {
		return Config{}, fmt.Errorf("LOW_STOCK_THRESHOLD cannot be negative")
	}
	if cfg.QuotationValidityDays <= 0 {
		return Config{}, fmt.Errorf("QUOTATION_VALIDITY_DAYS must be a positive integer")
	}
	return cfg, nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempotencyTTLHours) * time.Hour
}
