package pricing

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments. They start as no-ops so the client works in tests
// without InitMetrics.
var (
	requestCounter    metric.Int64Counter
	durationHistogram metric.Float64Histogram
	errorCounter      metric.Int64Counter
)

func init() {
	if err := InitMetrics(); err != nil {
		panic(err)
	}
}

// InitMetrics registers the pricing client's OTel instruments. Call it again
// after observability.InitMetrics so they bind to the real meter provider.
func InitMetrics() error {
	meter := otel.Meter("pricing")

	var err error

	requestCounter, err = meter.Int64Counter("pricing.requests.total",
		metric.WithDescription("Total number of quote requests sent to the pricing API"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("creating request counter: %w", err)
	}

	durationHistogram, err = meter.Float64Histogram("pricing.request.duration",
		metric.WithDescription("Duration of pricing API calls in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(50, 100, 250, 500, 1000, 2500, 5000, 10000),
	)
	if err != nil {
		return fmt.Errorf("creating duration histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("pricing.errors.total",
		metric.WithDescription("Total number of failed quote requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
