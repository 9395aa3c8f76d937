package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tournevent/bolplaza/internal/config"
	"github.com/tournevent/bolplaza/internal/telemetry"
	"github.com/tournevent/bolplaza/pkg/bolplaza"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// app is everything a command needs.
type app struct {
	cfg      *config.Config
	logger   *otelzap.Logger
	client   *bolplaza.Client
	metrics  *telemetry.Metrics
	registry *prometheus.Registry
	shutdown func(context.Context) error
}

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

func initLogger(cfg *config.Config) (*otelzap.Logger, error) {
	return telemetry.NewLogger(telemetry.LoggerConfig{
		Level:   cfg.LogLevel,
		Service: cfg.ServiceName,
		Version: cfg.Version,
		Secrets: []string{cfg.PrivateKey},
	})
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Attributes()...)
}

func initApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return nil, err
	}

	tracer, shutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
		shutdown = func(context.Context) error { return nil }
	}

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(registry)

	client, err := bolplaza.New(bolplaza.Config{
		PublicKey:          cfg.PublicKey,
		PrivateKey:         cfg.PrivateKey,
		Test:               cfg.Test,
		BaseURL:            cfg.BaseURL,
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		UseMock:            cfg.UseMock,
		Observer:           metrics,
	}, logger, tracer)
	if err != nil {
		return nil, fmt.Errorf("creating plaza client: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		metrics:  metrics,
		registry: registry,
		shutdown: shutdown,
	}, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("Tracer shutdown failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}
