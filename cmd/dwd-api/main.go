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

	"github.com/couchcryptid/dwd-weather-api/internal/adapter/dwd"
	httpadapter "github.com/couchcryptid/dwd-weather-api/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/dwd-weather-api/internal/adapter/kafka"
	"github.com/couchcryptid/dwd-weather-api/internal/config"
	"github.com/couchcryptid/dwd-weather-api/internal/observability"
	"github.com/couchcryptid/dwd-weather-api/internal/pipeline"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env file is fine; the environment may already be complete.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg).With("version", version)
	metrics := observability.NewMetrics()

	client := dwd.NewClient(cfg.DWDBaseURL, cfg.DWDStationsURL, cfg.UpstreamTimeout, logger)

	// The publisher is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.PublishEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	svc := pipeline.New(client, publisher, pipeline.Options{
		Workers:     cfg.DecodeWorkers,
		CacheSize:   cfg.CacheSize,
		StationsTTL: cfg.StationsCacheTTL,
		ForecastTTL: cfg.ForecastCacheTTL,
		ReportTTL:   cfg.ReportCacheTTL,
	}, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, version, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Fail readiness first and let in-flight publishes finish, then stop the listener.
	if err := svc.Close(shutdownCtx); err != nil {
		logger.Error("service close error", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
