package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	sessionCounter  otelmetric.Int64Counter
	sessionDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	sessionCounter, _ := meter.Int64Counter(
		"sessions.processed",
		otelmetric.WithDescription("Number of advisory sessions processed"),
	)

	sessionDuration, _ := meter.Float64Histogram(
		"sessions.duration",
		otelmetric.WithDescription("Session processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		sessionCounter:  sessionCounter,
		sessionDuration: sessionDuration,
	}
}

func (o *Observability) RecordSessionProcessed(ctx context.Context, terminal string) {
	if o.sessionCounter != nil {
		o.sessionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("terminal", terminal),
		))
	}
}

func (o *Observability) RecordSessionDuration(ctx context.Context, duration time.Duration, terminal string) {
	if o.sessionDuration != nil {
		o.sessionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("terminal", terminal),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
