package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(":8000")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "pizza.orders", cfg.OrderTopic)
	assert.Equal(t, 20*time.Millisecond, cfg.PrepDelay)
	assert.Empty(t, cfg.KafkaAddr)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("PREP_DELAY", "0s")
	t.Setenv("KAFKA_ADDR", "localhost:9092")

	cfg, err := Load(":8000")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, time.Duration(0), cfg.PrepDelay)
	assert.Equal(t, "localhost:9092", cfg.KafkaAddr)
}
