package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/space-weather-alerts/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/space-weather-alerts/internal/adapter/kafka"
	"github.com/couchcryptid/space-weather-alerts/internal/adapter/noaa"
	"github.com/couchcryptid/space-weather-alerts/internal/adapter/slack"
	"github.com/couchcryptid/space-weather-alerts/internal/config"
	"github.com/couchcryptid/space-weather-alerts/internal/monitor"
	"github.com/couchcryptid/space-weather-alerts/internal/observability"
)

func main() {
	// A missing .env is normal in containers; real environment wins either way.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	feeds := noaa.NewClient(cfg, clock, metrics, logger)
	notifier := slack.NewClient(cfg.WebhookURL, cfg.WebhookTimeout, logger)

	// Readings sink (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var sink monitor.ReadingSink
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, metrics, logger)
		sink = writer
		logger.Info("kafka readings sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka readings sink disabled")
	}

	m := monitor.New(feeds, notifier, sink, clock, logger, metrics, monitor.Options{
		Interval:        cfg.PollInterval,
		HeartbeatEvery:  cfg.HeartbeatEvery,
		SummaryHour:     cfg.SummaryHour,
		SummaryLocation: cfg.SummaryLocation,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	m.Preflight(ctx)

	// Start poll loop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := m.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("monitor did not stop before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
