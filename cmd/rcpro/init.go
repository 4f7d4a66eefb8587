package main

import (
	"context"
	"errors"
	"time"

	"rcpro-configurator/internal/config"
	"rcpro-configurator/internal/observability"
	"rcpro-configurator/internal/pricing"
	"rcpro-configurator/internal/web"
)

// initMetrics initialises all metric providers and application-specific
// metric instruments.
func initMetrics(ctx context.Context, interval time.Duration) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx, interval)
	if err != nil {
		return nil, err
	}

	if err := pricing.InitMetrics(); err != nil {
		return nil, err
	}
	if err := web.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}

// initTelemetry starts OTLP export of traces, metrics and optionally logs.
// The returned function flushes and stops all of them.
func initTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	if cfg.ServiceName != "" {
		observability.SetServiceName(cfg.ServiceName)
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		return nil, err
	}
	shutdowns = append(shutdowns, traceShutdown)

	metricShutdown, err := initMetrics(ctx, cfg.MetricInterval)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	shutdowns = append(shutdowns, metricShutdown)

	if cfg.Logs {
		logShutdown, err := observability.InitLogging(ctx)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, logShutdown)
	}

	return shutdown, nil
}
