package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"churnlens/internal/config"
	"churnlens/pkg/contracts"
)

const (
	ServiceName = "churnlens"
	MeterName   = "churnlens"
)

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Registry       *promclient.Registry
	Logger         *slog.Logger
}

// InitializeOTel sets up metrics and, optionally, stdout tracing.
// Each call uses its own Prometheus registry so providers can coexist in tests.
func InitializeOTel(cfg config.TelemetryConfig, logger *slog.Logger) (*OTelProviders, error) {
	if logger == nil {
		logger = GetLogger()
	}
	ctx := context.Background()

	logger.InfoContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", ServiceName),
		slog.String("version", contracts.Version),
		slog.String("environment", cfg.Environment),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{Logger: logger}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(ctx, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	} else {
		providers.Meter = noop.NewMeterProvider().Meter(MeterName)
		providers.PrometheusHTTP = http.NotFoundHandler()
	}

	if providers.Tracer == nil {
		providers.Tracer = otel.Tracer(MeterName)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return providers, nil
}

func createResource(cfg config.TelemetryConfig) (*resource.Resource, error) {
	env := cfg.Environment
	if env == "" {
		env = "development"
	}
	host, _ := os.Hostname()
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
		semconv.DeploymentEnvironmentName(env),
		attribute.String("host.name", host),
	), nil
}

func initializeTracing(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "", "none":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))
	return nil
}

func initializeMetrics(ctx context.Context, res *resource.Resource, providers *OTelProviders) error {
	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))
	otel.SetMeterProvider(mp)

	providers.Logger.InfoContext(ctx, "Metrics initialized", slog.String("exporter", "prometheus"))
	return nil
}

// Shutdown flushes and stops all providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ChurnMetrics are the analytics instruments recorded by loaders, the aggregator and the API
type ChurnMetrics struct {
	RecordsLoaded       metric.Int64Counter
	RowsRejected        metric.Int64Counter
	UnknownGeography    metric.Int64Counter
	LoadDuration        metric.Float64Histogram
	SegmentComputations metric.Int64Counter
	ReportsWritten      metric.Int64Counter
	HTTPRequests        metric.Int64Counter
	HTTPDuration        metric.Float64Histogram
	ActiveRequests      metric.Int64UpDownCounter
}

// CreateChurnMetrics registers the analytics instruments on meter
func CreateChurnMetrics(meter metric.Meter) (*ChurnMetrics, error) {
	m := &ChurnMetrics{}
	var err error

	if m.RecordsLoaded, err = meter.Int64Counter("churn_records_loaded_total",
		metric.WithDescription("Customer records loaded from the dataset")); err != nil {
		return nil, fmt.Errorf("records loaded counter: %w", err)
	}
	if m.RowsRejected, err = meter.Int64Counter("churn_rows_rejected_total",
		metric.WithDescription("Dataset rows that failed coercion")); err != nil {
		return nil, fmt.Errorf("rows rejected counter: %w", err)
	}
	if m.UnknownGeography, err = meter.Int64Counter("churn_unknown_geography_total",
		metric.WithDescription("Rows whose geography was mapped to Unknown")); err != nil {
		return nil, fmt.Errorf("unknown geography counter: %w", err)
	}
	if m.LoadDuration, err = meter.Float64Histogram("churn_load_duration_seconds",
		metric.WithDescription("Time spent loading a dataset"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("load duration histogram: %w", err)
	}
	if m.SegmentComputations, err = meter.Int64Counter("churn_segment_computations_total",
		metric.WithDescription("Segment breakdowns computed, by dimension")); err != nil {
		return nil, fmt.Errorf("segment computations counter: %w", err)
	}
	if m.ReportsWritten, err = meter.Int64Counter("churn_reports_written_total",
		metric.WithDescription("Report files written, by format")); err != nil {
		return nil, fmt.Errorf("reports written counter: %w", err)
	}
	if m.HTTPRequests, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Dashboard API requests")); err != nil {
		return nil, fmt.Errorf("http requests counter: %w", err)
	}
	if m.HTTPDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("Dashboard API request latency"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("http duration histogram: %w", err)
	}
	if m.ActiveRequests, err = meter.Int64UpDownCounter("http_requests_in_flight",
		metric.WithDescription("Dashboard API requests currently being served")); err != nil {
		return nil, fmt.Errorf("active requests counter: %w", err)
	}

	return m, nil
}

// NoopChurnMetrics returns instruments that record nothing
func NoopChurnMetrics() *ChurnMetrics {
	m, _ := CreateChurnMetrics(noop.NewMeterProvider().Meter(MeterName))
	return m
}

// RecordLoad records the outcome of one dataset load
func (m *ChurnMetrics) RecordLoad(ctx context.Context, format string, loaded, rejected, unknown int, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("format", format))
	m.RecordsLoaded.Add(ctx, int64(loaded), attrs)
	m.RowsRejected.Add(ctx, int64(rejected), attrs)
	m.UnknownGeography.Add(ctx, int64(unknown), attrs)
	m.LoadDuration.Record(ctx, seconds, attrs)
}

// RecordSegments records a breakdown computation for dimension
func (m *ChurnMetrics) RecordSegments(ctx context.Context, dimension string) {
	if m == nil {
		return
	}
	m.SegmentComputations.Add(ctx, 1, metric.WithAttributes(attribute.String("dimension", dimension)))
}

// RecordReport records one written report file
func (m *ChurnMetrics) RecordReport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.ReportsWritten.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordHTTPRequest records a served API request
func (m *ChurnMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequests.Add(ctx, 1, attrs)
	m.HTTPDuration.Record(ctx, seconds, attrs)
}

// StartSpan starts a span on the global tracer
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(MeterName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordError marks span as failed with err
func RecordError(span trace.Span, err error) {
	if err == nil || span == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceIDFromContext returns the OpenTelemetry trace ID of the active span, if any
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
