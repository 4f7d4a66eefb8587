package observability

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rcpro-configurator/internal/handlers"
)

// RecordError ends a failed handler: the error goes on the span, the counter
// is incremented per operation and status, the failure is logged and msg is
// written back as {"error": msg}. Client errors log at warn, the rest at
// error. The request id travels in the X-Request-ID header only.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, opName, msg string, err error, status int, w http.ResponseWriter) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)

	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.Int("status", status),
	))

	if ce := logger.Check(errorLevel(status), msg); ce != nil {
		ce.Write(
			zap.String("operation", opName),
			zap.Error(err),
			zap.Int("status", status),
			zap.String("request_id", RequestIDFromContext(ctx)),
		)
	}

	handlers.WriteError(w, status, msg)
}

func errorLevel(status int) zapcore.Level {
	if status < http.StatusInternalServerError {
		return zapcore.WarnLevel
	}
	return zapcore.ErrorLevel
}
