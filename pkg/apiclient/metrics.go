package apiclient

import (
	"context"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/mshando/marketplace-client/pkg/apiclient"

type instruments struct {
	counter metric.Int64Counter
	hist    metric.Int64Histogram
}

func newInstruments(provider metric.MeterProvider) (*instruments, error) {
	meter := provider.Meter(
		instrumentationName,
		metric.WithInstrumentationVersion(otel.Version()),
	)

	counter, err := meter.Int64Counter(
		"http.client.request_count",
		metric.WithDescription("Outgoing backend request count"),
		metric.WithUnit("request"),
	)
	if err != nil {
		return nil, oops.In("API Client").Wrapf(err, "creating request_count meter")
	}

	hist, err := meter.Int64Histogram(
		"http.client.duration",
		metric.WithDescription("Outgoing end to end duration"),
		metric.WithUnit("milliseconds"),
	)
	if err != nil {
		return nil, oops.In("API Client").Wrapf(err, "creating duration meter")
	}

	return &instruments{counter: counter, hist: hist}, nil
}

func (i *instruments) record(ctx context.Context, method string, status int, kind string, retried bool, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.Int("http.status_code", status),
		attribute.String("error.kind", kind),
		attribute.Bool("retried", retried),
	)

	i.counter.Add(ctx, 1, attrs)
	i.hist.Record(ctx, elapsed.Milliseconds(), attrs)
}
