package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestNewProvider_RecordersDoNotPanic(t *testing.T) {
	ctx := context.Background()
	p, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	defer p.Shutdown(ctx)

	p.RecordJobAdded(ctx, "example-1")
	p.RecordJobAddFailure(ctx, "example-1", "cycle")
	p.RecordJobRemoved(ctx, "example-1")
	p.RecordAnalysis(ctx, "example-1", 5*time.Millisecond, 1, 2)
	p.RecordExport(ctx, "shell", 2*time.Millisecond, 128)

	if p.Tracer() == nil {
		t.Fatalf("Tracer() = nil with tracing enabled")
	}
	if p.Meter() == nil {
		t.Fatalf("Meter() = nil with metrics enabled")
	}
}

func TestNewProvider_MetricsDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.EnableMetrics = false
	cfg.EnableTracing = false
	p, err := NewProvider(ctx, cfg)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	defer p.Shutdown(ctx)

	// Must be safe no-ops when metrics were never initialized.
	p.RecordJobAdded(ctx, "example-1")
	p.RecordAnalysis(ctx, "example-1", time.Millisecond, 0, 0)
	if p.Meter() != nil {
		t.Fatalf("Meter() = non-nil despite EnableMetrics=false")
	}
}

func TestTelemetryObserver_OnEvent_AllEventTypes(t *testing.T) {
	ctx := context.Background()
	p, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	defer p.Shutdown(ctx)

	obs := NewTelemetryObserver(p)
	events := []Event{
		{Type: EventJobAdded, WorkflowName: "w"},
		{Type: EventJobAddRejected, WorkflowName: "w", ErrorKind: "cycle"},
		{Type: EventJobRemoved, WorkflowName: "w"},
		{Type: EventAnalysisComplete, WorkflowName: "w", OutdatedCount: 1, TotalCount: 2, Duration: time.Millisecond},
		{Type: EventExportComplete, ExportTarget: "shell", BytesEmitted: 10, Duration: time.Millisecond},
	}
	for _, e := range events {
		obs.OnEvent(ctx, e) // must not panic for any event type
	}
}

// capturingObserver records the events it is handed, so
// WorkflowObserverAdapter can be tested without a real Provider.
type capturingObserver struct {
	events []Event
}

func (c *capturingObserver) OnEvent(ctx context.Context, e Event) {
	c.events = append(c.events, e)
}

func TestWorkflowObserverAdapter_RoutesThroughOnEvent(t *testing.T) {
	cap := &capturingObserver{}
	adapter := WorkflowObserverAdapter{Observer: cap}

	adapter.JobAdded("w", "x")
	adapter.JobAddRejected("w", "", "cycle")
	adapter.JobRemoved("w", "x")

	if len(cap.events) != 3 {
		t.Fatalf("got %d events, want 3", len(cap.events))
	}
	if cap.events[0].Type != EventJobAdded || cap.events[0].JobID != "x" {
		t.Fatalf("event 0 = %+v, want JobAdded x", cap.events[0])
	}
	if cap.events[1].Type != EventJobAddRejected || cap.events[1].ErrorKind != "cycle" {
		t.Fatalf("event 1 = %+v, want JobAddRejected cycle", cap.events[1])
	}
	if cap.events[2].Type != EventJobRemoved || cap.events[2].JobID != "x" {
		t.Fatalf("event 2 = %+v, want JobRemoved x", cap.events[2])
	}
}
