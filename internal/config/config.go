package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is shared by both service binaries. Kafka, redis and tracing are
// optional: leaving the address empty disables the integration.
type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	KafkaAddr    string        `env:"KAFKA_ADDR"`
	OrderTopic   string        `env:"ORDER_TOPIC" envDefault:"pizza.orders"`
	RedisAddr    string        `env:"REDIS_ADDR"`
	OTLPEndpoint string        `env:"OTLP_ENDPOINT"`
	PrepDelay    time.Duration `env:"PREP_DELAY" envDefault:"20ms"`
	IdemTTL      time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"10m"`
}

// Load parses the environment, using defaultAddr when HTTP_ADDR is unset.
func Load(defaultAddr string) (Config, error) {
	cfg := Config{HTTPAddr: defaultAddr}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
