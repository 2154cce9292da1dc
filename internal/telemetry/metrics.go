package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/gauthierbraillon/crosspost"

// Metrics holds the publish counters.
type Metrics struct {
	Publishes       metric.Int64Counter
	PublishDuration metric.Float64Histogram
}

// NewMetrics registers the instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	publishes, err := meter.Int64Counter(
		"crosspost.publishes",
		metric.WithDescription("Publish attempts per destination and outcome"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"crosspost.publish.duration",
		metric.WithDescription("Publish duration per destination in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{Publishes: publishes, PublishDuration: duration}, nil
}

// RecordPublish records one destination attempt. A nil receiver is a no-op.
func (m *Metrics) RecordPublish(ctx context.Context, destination, outcome string, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("destination", destination),
		attribute.String("outcome", outcome),
	)
	m.Publishes.Add(ctx, 1, attrs)
	m.PublishDuration.Record(ctx, seconds, attrs)
}
