package observability

import (
	"context"
	"errors"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/tecnoclick/search-backend"

// Metrics holds all application metrics
type Metrics struct {
	HTTPRequestCount    metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	SearchCount        metric.Int64Counter
	SearchDuration     metric.Float64Histogram
	ZeroResultCount    metric.Int64Counter
	CorrectionsApplied metric.Int64Counter
	SelectionCount     metric.Int64Counter
	VocabCacheHits     metric.Int64Counter
	VocabCacheMisses   metric.Int64Counter
}

// Setup initializes OpenTelemetry trace and metric pipelines against an OTLP
// gRPC endpoint and returns a shutdown function.
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(); err != nil {
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	httpRequestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	searchCount, err := meter.Int64Counter(
		"search.count",
		metric.WithDescription("Number of searches executed"),
	)
	if err != nil {
		return nil, err
	}

	searchDuration, err := meter.Float64Histogram(
		"search.duration",
		metric.WithDescription("Search duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	zeroResultCount, err := meter.Int64Counter(
		"search.zero_result.count",
		metric.WithDescription("Number of searches returning no products"),
	)
	if err != nil {
		return nil, err
	}

	correctionsApplied, err := meter.Int64Counter(
		"search.correction.count",
		metric.WithDescription("Number of searches whose query was rewritten"),
	)
	if err != nil {
		return nil, err
	}

	selectionCount, err := meter.Int64Counter(
		"search.selection.count",
		metric.WithDescription("Number of click events registered"),
	)
	if err != nil {
		return nil, err
	}

	vocabHits, err := meter.Int64Counter(
		"vocabulary.cache.hit.count",
		metric.WithDescription("Known-terms cache hits"),
	)
	if err != nil {
		return nil, err
	}

	vocabMisses, err := meter.Int64Counter(
		"vocabulary.cache.miss.count",
		metric.WithDescription("Known-terms cache misses"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		HTTPRequestCount:    httpRequestCount,
		HTTPRequestDuration: httpRequestDuration,

		SearchCount:        searchCount,
		SearchDuration:     searchDuration,
		ZeroResultCount:    zeroResultCount,
		CorrectionsApplied: correctionsApplied,
		SelectionCount:     selectionCount,
		VocabCacheHits:     vocabHits,
		VocabCacheMisses:   vocabMisses,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}
