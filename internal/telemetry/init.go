package telemetry

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
)

// InitOpenTelemetry sets up tracing and metrics with OTLP HTTP exporters.
// Either pipeline is disabled by leaving its endpoint at the "-" default.
type InitOpenTelemetry struct {
	Logger          *log.Logger `resolve:""`
	TracesEndpoint  string      `config:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT" default:"-"`
	MetricsEndpoint string      `config:"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT" default:"-"`

	tracerProvider *sdktrace.TracerProvider
	spanExporter   sdktrace.SpanExporter
	meterProvider  *sdkmetric.MeterProvider
	metricExporter sdkmetric.Exporter
}

// Initialize wires the configured providers into the otel globals.
func (o *InitOpenTelemetry) Initialize(ctx context.Context) (context.Context, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String("academy-crm"),
	))
	if err != nil {
		return ctx, fmt.Errorf("failed to create otel resource: %w", err)
	}

	if o.TracesEndpoint != "-" {
		o.tracerProvider, o.spanExporter, err = newTracerProvider(ctx, res)
		if err != nil {
			return ctx, err
		}
		otel.SetTracerProvider(o.tracerProvider)
	}

	if o.MetricsEndpoint != "-" {
		o.meterProvider, o.metricExporter, err = newMeterProvider(ctx, res)
		if err != nil {
			return ctx, err
		}
		otel.SetMeterProvider(o.meterProvider)
	}

	return ctx, nil
}

// Close flushes and shuts down whichever pipelines were started.
func (o *InitOpenTelemetry) Close() {
	if o.tracerProvider == nil && o.meterProvider == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdown := func(name string, s interface {
		Shutdown(context.Context) error
	}) {
		if err := s.Shutdown(shutdownCtx); err != nil {
			o.Logger.Printf("Error shutting down %s: %v", name, err)
		}
	}

	if o.tracerProvider != nil {
		shutdown("tracer provider", o.tracerProvider)
		shutdown("span exporter", o.spanExporter)
	}
	if o.meterProvider != nil {
		shutdown("meter provider", o.meterProvider)
		shutdown("metric exporter", o.metricExporter)
	}
}

// InitHttpClient registers the shared outbound HTTP client: retrying, traced,
// and honest about 500s (replaying the same body will not help).
type InitHttpClient struct {
	Logger *log.Logger `resolve:""`
}

func (i InitHttpClient) Initialize(ctx context.Context) (context.Context, error) {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.RetryMax = 3
	retryClient.CheckRetry = skipRetryOn500(retryablehttp.ErrorPropagatedRetryPolicy)
	retryClient.Logger = i.Logger

	client := retryClient.StandardClient()
	client.Transport = otelhttp.NewTransport(
		client.Transport,
		otelhttp.WithSpanNameFormatter(SpanNameFormatter),
	)

	depend.Register(client)
	return ctx, nil
}

func skipRetryOn500(policy retryablehttp.CheckRetry) retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if resp.StatusCode == http.StatusInternalServerError {
			return false, err
		}
		return policy(ctx, resp, err)
	}
}
