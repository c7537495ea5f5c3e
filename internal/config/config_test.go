package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmbeddingURL = "http://embedding:8000"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EMBEDDING_URL", testEmbeddingURL)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, testEmbeddingURL, cfg.EmbeddingURL)
	assert.Equal(t, 10*time.Second, cfg.EmbeddingTimeout)
	assert.False(t, cfg.WeatherEnabled)
	assert.Empty(t, cfg.WeatherAPIKey)
	assert.Equal(t, 2*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, 10*time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, 8, cfg.WeatherConcurrency)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "recommend-audit", cfg.KafkaAuditTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("EMBEDDING_URL", testEmbeddingURL)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("EMBEDDING_TIMEOUT", "5s")
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("WEATHER_TIMEOUT", "3s")
	t.Setenv("WEATHER_CACHE_TTL", "5m")
	t.Setenv("WEATHER_CONCURRENCY", "16")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_AUDIT_TOPIC", "custom-audit")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.EmbeddingTimeout)
	assert.True(t, cfg.WeatherEnabled)
	assert.Equal(t, "test-key", cfg.WeatherAPIKey)
	assert.Equal(t, 3*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, 5*time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, 16, cfg.WeatherConcurrency)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-audit", cfg.KafkaAuditTopic)
}

func TestLoad_RequiresEmbeddingURL(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMBEDDING_URL")
}

func TestLoad_WeatherEnabledNeedsKey(t *testing.T) {
	t.Setenv("EMBEDDING_URL", testEmbeddingURL)
	t.Setenv("WEATHER_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENWEATHER_API_KEY")
}

func TestLoad_WeatherCanBeForcedOff(t *testing.T) {
	t.Setenv("EMBEDDING_URL", testEmbeddingURL)
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("WEATHER_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.WeatherEnabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"negative embedding timeout", "EMBEDDING_TIMEOUT", "-5s"},
		{"bad cache ttl", "WEATHER_CACHE_TTL", "ten minutes"},
		{"non-numeric concurrency", "WEATHER_CONCURRENCY", "many"},
		{"zero concurrency", "WEATHER_CONCURRENCY", "0"},
		{"excessive concurrency", "WEATHER_CONCURRENCY", "500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EMBEDDING_URL", testEmbeddingURL)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
