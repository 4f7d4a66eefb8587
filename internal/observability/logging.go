package observability

import (
	"context"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogging tees Logger into an OTLP log exporter. Call it after InitLogger.
// Only entries at Info or above are exported; debug output stays local.
func InitLogging(ctx context.Context) (func(context.Context) error, error) {

	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(
			sdklog.NewBatchProcessor(exporter),
		),
	)

	otelCore, err := exportCore(otelzap.NewCore(ServiceName(), otelzap.WithLoggerProvider(provider)))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	Logger = zap.New(zapcore.NewTee(Logger.Core(), otelCore))

	return provider.Shutdown, nil
}

// exportCore raises core to Info so quote-level debug logs are never shipped.
func exportCore(core zapcore.Core) (zapcore.Core, error) {
	return zapcore.NewIncreaseLevelCore(core, zapcore.InfoLevel)
}
