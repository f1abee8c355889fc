// Package telemetry manages OpenTelemetry instrumentation for the workflow
// toolkit, exported through Prometheus: counters and histograms for job
// mutations, outdatedness analysis, and exports, mirroring the teacher's
// pkg/telemetry.Provider (same resource/meter/tracer setup, same
// Prometheus-backed metrics exporter) but re-pointed at this toolkit's own
// events instead of node/HTTP execution.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "spate"

	metricJobsAdded        = "spate.jobs.added.total"
	metricJobsAddFailures  = "spate.jobs.add_failures.total"
	metricJobsRemoved      = "spate.jobs.removed.total"
	metricAnalysisDuration = "spate.analysis.duration"
	metricAnalysisOutdated = "spate.analysis.outdated_jobs"
	metricExportDuration   = "spate.export.duration"
	metricExportBytes      = "spate.export.bytes"
)

// Provider manages OpenTelemetry setup and provides access to the tracer
// and the toolkit's metric instruments.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	jobsAdded        metric.Int64Counter
	jobsAddFailures  metric.Int64Counter
	jobsRemoved      metric.Int64Counter
	analysisDuration metric.Float64Histogram
	analysisOutdated metric.Int64Histogram
	exportDuration   metric.Float64Histogram
	exportBytes      metric.Int64Counter

	mu sync.RWMutex
}

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a new telemetry provider with a Prometheus metrics
// exporter, initializing OpenTelemetry with the given configuration.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if config.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if config.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

func (p *Provider) initTracing() {
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

func (p *Provider) createMetricInstruments() error {
	var err error

	p.jobsAdded, err = p.meter.Int64Counter(metricJobsAdded,
		metric.WithDescription("Total number of jobs successfully added to a workflow"))
	if err != nil {
		return err
	}

	p.jobsAddFailures, err = p.meter.Int64Counter(metricJobsAddFailures,
		metric.WithDescription("Total number of rejected add_job calls, by error kind"))
	if err != nil {
		return err
	}

	p.jobsRemoved, err = p.meter.Int64Counter(metricJobsRemoved,
		metric.WithDescription("Total number of jobs removed from a workflow"))
	if err != nil {
		return err
	}

	p.analysisDuration, err = p.meter.Float64Histogram(metricAnalysisDuration,
		metric.WithDescription("Outdatedness analysis wall-clock duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return err
	}

	p.analysisOutdated, err = p.meter.Int64Histogram(metricAnalysisOutdated,
		metric.WithDescription("Number of jobs flagged outdated per analysis run"))
	if err != nil {
		return err
	}

	p.exportDuration, err = p.meter.Float64Histogram(metricExportDuration,
		metric.WithDescription("Export rendering wall-clock duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return err
	}

	p.exportBytes, err = p.meter.Int64Counter(metricExportBytes,
		metric.WithDescription("Total bytes emitted by exporters, by target"))
	if err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans.
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordJobAdded records a successful add_job call.
func (p *Provider) RecordJobAdded(ctx context.Context, workflowName string) {
	if p.meter == nil {
		return
	}
	p.jobsAdded.Add(ctx, 1, metric.WithAttributes(attribute.String("workflow.name", workflowName)))
}

// RecordJobAddFailure records a rejected add_job call, tagged by the
// SpateError kind that caused the rejection.
func (p *Provider) RecordJobAddFailure(ctx context.Context, workflowName, errorKind string) {
	if p.meter == nil {
		return
	}
	p.jobsAddFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("workflow.name", workflowName),
		attribute.String("error.kind", errorKind),
	))
}

// RecordJobRemoved records a successful remove_job call.
func (p *Provider) RecordJobRemoved(ctx context.Context, workflowName string) {
	if p.meter == nil {
		return
	}
	p.jobsRemoved.Add(ctx, 1, metric.WithAttributes(attribute.String("workflow.name", workflowName)))
}

// RecordAnalysis records one outdatedness-analysis run's duration and the
// number of jobs it flagged outdated out of the total considered.
func (p *Provider) RecordAnalysis(ctx context.Context, workflowName string, duration time.Duration, outdatedCount, totalCount int) {
	if p.meter == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("workflow.name", workflowName),
		attribute.Int("jobs.total", totalCount),
	)
	p.analysisDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	p.analysisOutdated.Record(ctx, int64(outdatedCount), attrs)
}

// RecordExport records one exporter invocation's duration and output size.
func (p *Provider) RecordExport(ctx context.Context, target string, duration time.Duration, bytesEmitted int) {
	if p.meter == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("export.target", target))
	p.exportDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	p.exportBytes.Add(ctx, int64(bytesEmitted), attrs)
}

// Shutdown gracefully shuts down the telemetry provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}
	return nil
}
