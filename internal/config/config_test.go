package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookURL = "https://hooks.slack.com/services/T000/B000/XXXX"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SLACK_WEBHOOK_URL", testWebhookURL)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testWebhookURL, cfg.WebhookURL)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 9, cfg.SummaryHour)
	assert.Equal(t, time.Local, cfg.SummaryLocation)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.Equal(t, 12, cfg.HeartbeatEvery)
	assert.Equal(t, "https://services.swpc.noaa.gov", cfg.NOAABaseURL)
	assert.Equal(t, 10*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 3, cfg.FeedBreakerThreshold)
	assert.Equal(t, 10*time.Minute, cfg.FeedBreakerCooldown)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "space-weather-readings", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("DAILY_SUMMARY_HOUR", "0")
	t.Setenv("SUMMARY_TIMEZONE", "America/Denver")
	t.Setenv("POLL_INTERVAL", "1m")
	t.Setenv("HEARTBEAT_EVERY", "60")
	t.Setenv("NOAA_BASE_URL", "http://localhost:9000/")
	t.Setenv("FEED_TIMEOUT", "2s")
	t.Setenv("FEED_BREAKER_THRESHOLD", "5")
	t.Setenv("FEED_BREAKER_COOLDOWN", "30m")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "swpc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 0, cfg.SummaryHour)
	assert.Equal(t, "America/Denver", cfg.SummaryLocation.String())
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, 60, cfg.HeartbeatEvery)
	assert.Equal(t, "http://localhost:9000", cfg.NOAABaseURL)
	assert.Equal(t, 2*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 5, cfg.FeedBreakerThreshold)
	assert.Equal(t, 30*time.Minute, cfg.FeedBreakerCooldown)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "swpc", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"summary hour too large", "DAILY_SUMMARY_HOUR", "24", "DAILY_SUMMARY_HOUR"},
		{"summary hour negative", "DAILY_SUMMARY_HOUR", "-1", "DAILY_SUMMARY_HOUR"},
		{"summary hour not a number", "DAILY_SUMMARY_HOUR", "nine", "DAILY_SUMMARY_HOUR"},
		{"unknown timezone", "SUMMARY_TIMEZONE", "Mars/Olympus_Mons", "SUMMARY_TIMEZONE"},
		{"poll interval not a duration", "POLL_INTERVAL", "often", "POLL_INTERVAL"},
		{"poll interval zero", "POLL_INTERVAL", "0s", "POLL_INTERVAL"},
		{"poll interval over an hour", "POLL_INTERVAL", "2h", "POLL_INTERVAL"},
		{"heartbeat zero", "HEARTBEAT_EVERY", "0", "HEARTBEAT_EVERY"},
		{"feed timeout negative", "FEED_TIMEOUT", "-1s", "FEED_TIMEOUT"},
		{"breaker threshold zero", "FEED_BREAKER_THRESHOLD", "0", "FEED_BREAKER_THRESHOLD"},
		{"bad noaa url", "NOAA_BASE_URL", "not a url", "NOAA_BASE_URL"},
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"bad log format", "LOG_FORMAT", "xml", "LOG_FORMAT"},
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "not-a-duration", "SHUTDOWN_TIMEOUT"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-1s", "SHUTDOWN_TIMEOUT"},
		{"bad webhook timeout", "WEBHOOK_TIMEOUT", "0s", "WEBHOOK_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingWebhook(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_WEBHOOK_URL")
}

func TestLoad_WebhookNotAURL(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "#space-weather")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_WEBHOOK_URL")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaEnabledWithBlankBrokerList(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", " , ")
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_BlankBrokerListLeavesKafkaDisabled(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", " , ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Nil(t, cfg.KafkaBrokers)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}
