package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EventType identifies which toolkit operation an Event describes,
// adapted from the teacher's pkg/observer.EventType (workflow/node
// execution lifecycle) down to this toolkit's own lifecycle: graph
// mutation, analysis, and export, never job execution (an explicit
// Non-goal).
type EventType string

const (
	EventJobAdded        EventType = "job_added"
	EventJobAddRejected  EventType = "job_add_rejected"
	EventJobRemoved      EventType = "job_removed"
	EventAnalysisComplete EventType = "analysis_complete"
	EventExportComplete  EventType = "export_complete"
)

// Event carries the data needed to both log and record metrics for one
// toolkit operation.
type Event struct {
	Type      EventType
	Timestamp time.Time

	WorkflowName string
	JobID        string
	ErrorKind    string // set for EventJobAddRejected

	Duration time.Duration // set for EventAnalysisComplete, EventExportComplete

	OutdatedCount int // set for EventAnalysisComplete
	TotalCount    int // set for EventAnalysisComplete

	ExportTarget string // set for EventExportComplete
	BytesEmitted int     // set for EventExportComplete

	Err error
}

// Observer receives toolkit lifecycle events. cmd/spate wires a single
// TelemetryObserver: it calls OnEvent after each Analyze and export run,
// and the add_job calls made while loading a document reach it through
// WorkflowObserverAdapter, the way the teacher's engine notifies
// pkg/observer.Observer around node execution.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// TelemetryObserver implements Observer and records telemetry for toolkit
// lifecycle events: a short-lived span per analysis/export run, counters
// for job mutations.
type TelemetryObserver struct {
	provider *Provider
}

// NewTelemetryObserver creates an Observer backed by provider.
func NewTelemetryObserver(provider *Provider) *TelemetryObserver {
	return &TelemetryObserver{provider: provider}
}

// OnEvent handles one lifecycle event and records the corresponding
// telemetry.
func (o *TelemetryObserver) OnEvent(ctx context.Context, event Event) {
	switch event.Type {
	case EventJobAdded:
		o.provider.RecordJobAdded(ctx, event.WorkflowName)

	case EventJobAddRejected:
		o.provider.RecordJobAddFailure(ctx, event.WorkflowName, event.ErrorKind)

	case EventJobRemoved:
		o.provider.RecordJobRemoved(ctx, event.WorkflowName)

	case EventAnalysisComplete:
		o.recordSpan(ctx, "workflow.analyze", event, func(span trace.Span) {
			span.SetAttributes(
				attribute.String("workflow.name", event.WorkflowName),
				attribute.Int("jobs.outdated", event.OutdatedCount),
				attribute.Int("jobs.total", event.TotalCount),
			)
		})
		o.provider.RecordAnalysis(ctx, event.WorkflowName, event.Duration, event.OutdatedCount, event.TotalCount)

	case EventExportComplete:
		o.recordSpan(ctx, "workflow.export", event, func(span trace.Span) {
			span.SetAttributes(
				attribute.String("export.target", event.ExportTarget),
				attribute.Int("export.bytes", event.BytesEmitted),
			)
		})
		o.provider.RecordExport(ctx, event.ExportTarget, event.Duration, event.BytesEmitted)
	}
}

func (o *TelemetryObserver) recordSpan(ctx context.Context, name string, event Event, annotate func(trace.Span)) {
	tracer := o.provider.Tracer()
	if tracer == nil {
		return
	}
	_, span := tracer.Start(ctx, name)
	annotate(span)
	if event.Err != nil {
		span.RecordError(event.Err)
		span.SetStatus(codes.Error, event.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
