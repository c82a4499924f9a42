package main

import (
	"context"

	"github.com/tournevent/shipengine/internal/config"
	"github.com/tournevent/shipengine/internal/kvstore"
	"github.com/tournevent/shipengine/internal/telemetry"
	"github.com/tournevent/shipengine/pkg/shipengine"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

// initStore selects the cache store: Redis when an address is configured,
// the in-memory store otherwise.
func initStore(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (kvstore.Store, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("Using in-memory cache store")
		return kvstore.NewMemory(), func() {}, nil
	}

	store := kvstore.NewRedis(kvstore.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := store.Ping(ctx); err != nil {
		return nil, nil, err
	}

	logger.Info("Using Redis cache store", zap.String("addr", cfg.RedisAddr))
	return store, func() { store.Close() }, nil
}

func initAdapter(cfg *config.Config, store kvstore.Store, logger *otelzap.Logger, tracer trace.Tracer) *shipengine.Adapter {
	return shipengine.New(cfg.Adapter(), store, logger, tracer)
}
