package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"net/http"
)

// SetupTracing initializes OpenTelemetry tracing with a stdout exporter
// (replace with OTLP in production).
func SetupTracing(serviceName string) (func(), error) {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return func() { _ = provider.Shutdown(context.Background()) }, nil
}

// SetupMetrics initializes the Prometheus exporter and sets the global
// meter provider. The returned handler serves the /metrics endpoint.
func SetupMetrics() (http.Handler, error) {
	exp, err := otelprom.New()
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	otel.SetMeterProvider(mp)
	return promhttp.Handler(), nil
}

// Metrics records chat-turn instrumentation.
type Metrics struct {
	turns       metric.Int64Counter
	turnLatency metric.Float64Histogram
}

// NewMetrics registers the turn instruments on the global meter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("coolkid-chat/backend")

	turns, err := meter.Int64Counter("chat_turns_total",
		metric.WithDescription("Completed chat turns by outcome"))
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("chat_turn_duration_seconds",
		metric.WithDescription("Wall-clock duration of a chat turn"))
	if err != nil {
		return nil, err
	}

	return &Metrics{turns: turns, turnLatency: latency}, nil
}

// RecordTurn records one completed turn with its outcome and duration.
func (m *Metrics) RecordTurn(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.turns.Add(ctx, 1, attrs)
	m.turnLatency.Record(ctx, elapsed.Seconds(), attrs)
}
