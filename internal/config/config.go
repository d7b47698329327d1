package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
)

// Config holds all service settings, populated from environment variables.
// The env tags name the variable each field is read from and are used in
// validation errors.
type Config struct {
	WebhookURL     string        `env:"SLACK_WEBHOOK_URL" validate:"required,url"`
	WebhookTimeout time.Duration `env:"WEBHOOK_TIMEOUT" validate:"gt=0"`

	SummaryHour     int            `env:"DAILY_SUMMARY_HOUR" validate:"min=0,max=23"`
	SummaryLocation *time.Location `env:"SUMMARY_TIMEZONE" validate:"required"`
	PollInterval    time.Duration  `env:"POLL_INTERVAL" validate:"gt=0,lte=1h"`
	HeartbeatEvery  int            `env:"HEARTBEAT_EVERY" validate:"min=1"`

	// NOAA SWPC feed settings.
	NOAABaseURL          string        `env:"NOAA_BASE_URL" validate:"required,url"`
	FeedTimeout          time.Duration `env:"FEED_TIMEOUT" validate:"gt=0"`
	FeedBreakerThreshold int           `env:"FEED_BREAKER_THRESHOLD" validate:"min=1"`
	FeedBreakerCooldown  time.Duration `env:"FEED_BREAKER_COOLDOWN" validate:"gt=0"`

	HTTPAddr        string        `env:"HTTP_ADDR"`
	LogLevel        string        `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// Optional Kafka sink for every poll's readings.
	KafkaBrokers []string `env:"KAFKA_BROKERS" validate:"required_if=KafkaEnabled true"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" validate:"required_if=KafkaEnabled true"`
	KafkaEnabled bool     `env:"KAFKA_ENABLED"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return v
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	webhookTimeout, err := parseDuration("WEBHOOK_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parseDuration("POLL_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	feedTimeout, err := parseDuration("FEED_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	breakerCooldown, err := parseDuration("FEED_BREAKER_COOLDOWN", "10m")
	if err != nil {
		return nil, err
	}

	summaryHour, err := parseInt("DAILY_SUMMARY_HOUR", 9)
	if err != nil {
		return nil, err
	}
	heartbeatEvery, err := parseInt("HEARTBEAT_EVERY", 12)
	if err != nil {
		return nil, err
	}
	breakerThreshold, err := parseInt("FEED_BREAKER_THRESHOLD", 3)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(sharedcfg.EnvOrDefault("SUMMARY_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_TIMEZONE: %w", err)
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	if len(brokers) == 0 {
		// required_if only rejects a nil slice.
		brokers = nil
	}
	kafkaEnabled := brokers != nil
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		WebhookURL:     os.Getenv("SLACK_WEBHOOK_URL"),
		WebhookTimeout: webhookTimeout,

		SummaryHour:     summaryHour,
		SummaryLocation: loc,
		PollInterval:    pollInterval,
		HeartbeatEvery:  heartbeatEvery,

		NOAABaseURL:          strings.TrimRight(sharedcfg.EnvOrDefault("NOAA_BASE_URL", "https://services.swpc.noaa.gov"), "/"),
		FeedTimeout:          feedTimeout,
		FeedBreakerThreshold: breakerThreshold,
		FeedBreakerCooldown:  breakerCooldown,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "space-weather-readings"),
		KafkaEnabled: kafkaEnabled,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field rules and reports the first violation by env var name.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch {
	case fe.Tag() == "required" || fe.Tag() == "required_if":
		return fmt.Errorf("%s is required", fe.Field())
	case fe.Param() != "":
		return fmt.Errorf("invalid %s: must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Errorf("invalid %s: must satisfy %s", fe.Field(), fe.Tag())
	}
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
