package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/georisk-console/internal/adapter/elevation"
	"github.com/couchcryptid/georisk-console/internal/adapter/geocode"
	httpadapter "github.com/couchcryptid/georisk-console/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/georisk-console/internal/adapter/kafka"
	"github.com/couchcryptid/georisk-console/internal/adapter/riskapi"
	"github.com/couchcryptid/georisk-console/internal/config"
	"github.com/couchcryptid/georisk-console/internal/domain"
	"github.com/couchcryptid/georisk-console/internal/enrichment"
	"github.com/couchcryptid/georisk-console/internal/observability"
	"github.com/couchcryptid/georisk-console/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Reverse geocoding is feature-flagged via MAPBOX_ENABLED /
	// MAPBOX_TOKEN; without it, enrichment degrades to the coordinate
	// fallback.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := geocode.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = geocode.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled, using fallback addresses")
	}

	var elevProvider domain.ElevationProvider
	if cfg.ElevationURL != "" {
		elevProvider = elevation.NewClient(cfg.ElevationURL, cfg.ElevationTimeout, metrics, logger)
	} else {
		logger.Info("elevation lookup disabled, using fallback elevation")
	}

	enrich := enrichment.NewService(
		geocoder, elevProvider, clock,
		cfg.DebounceInterval, cfg.LookupTimeout,
		metrics, logger,
	)

	riskClient := riskapi.NewClient(cfg.RiskAPIBaseURL, cfg.RiskAPITimeout, metrics, logger)

	opts := session.Options{
		Health:  riskClient,
		Fencing: cfg.ResultFencing,
	}

	var audit *kafkaadapter.AuditWriter
	if cfg.KafkaAuditEnabled {
		audit = kafkaadapter.NewAuditWriter(cfg.KafkaBrokers, cfg.KafkaAuditTopic, logger)
		opts.Audit = audit
		logger.Info("assessment audit stream enabled", "topic", cfg.KafkaAuditTopic)
	}

	sess := session.New(riskClient, enrich, clock, metrics, logger, opts)

	srv := httpadapter.NewServer(cfg.HTTPAddr, sess, riskClient, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("console session started", "session_id", sess.ID(), "fencing", cfg.ResultFencing)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if audit != nil {
		if err := audit.Close(); err != nil {
			logger.Error("audit writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
