package web

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// sessionsActive is scraped from /metrics.
var sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "rcpro",
	Subsystem: "web",
	Name:      "sessions_active",
	Help:      "Number of live configurator sessions.",
})

// OTel instruments, no-ops until InitMetrics runs against a real provider.
var (
	errorCounter  metric.Int64Counter
	eventsCounter metric.Int64Counter
)

func init() {
	if err := InitMetrics(); err != nil {
		panic(err)
	}
}

// InitMetrics registers the web configurator's OTel instruments.
// Call it after observability.InitMetrics.
func InitMetrics() error {
	meter := otel.Meter("web")

	var err error

	errorCounter, err = meter.Int64Counter("web.errors.total",
		metric.WithDescription("Total number of rejected configurator requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	eventsCounter, err = meter.Int64Counter("web.events.total",
		metric.WithDescription("Total number of configurator events by kind"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return fmt.Errorf("creating events counter: %w", err)
	}

	return nil
}
