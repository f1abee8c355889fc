package cli

import (
	"context"
	"time"

	"github.com/ajmazurie/spate/internal/serialize"
	"github.com/ajmazurie/spate/internal/telemetry"
	"github.com/ajmazurie/spate/internal/workflow"
)

// loadWorkflow loads a workflow document from path and logs the load at
// debug level. Every subcommand goes through this one entry point so the
// "load" operation named in spec §6 has a single implementation. When
// metrics are enabled, each job in the document is replayed through
// workflow.AddJob with an Observer attached, so the same job-added/
// job-rejected telemetry a library embedder would see is also recorded here.
func loadWorkflow(path string) (*workflow.Workflow, error) {
	var wfObserver workflow.Observer
	if observer != nil {
		wfObserver = telemetry.WorkflowObserverAdapter{Observer: observer}
	}
	w, err := serialize.LoadWithObserver(path, wfObserver)
	if err != nil {
		return nil, err
	}
	logger.WithWorkflow(w.Name()).Debugf("loaded workflow from %s", path)
	return w, nil
}

// notifyAnalysis reports one outdatedness-analysis run to the configured
// telemetry observer, when metrics are enabled.
func notifyAnalysis(ctx context.Context, workflowName string, start time.Time, outdatedCount, totalCount int) {
	if observer == nil {
		return
	}
	observer.OnEvent(ctx, telemetry.Event{
		Type:          telemetry.EventAnalysisComplete,
		Timestamp:     time.Now(),
		WorkflowName:  workflowName,
		Duration:      time.Since(start),
		OutdatedCount: outdatedCount,
		TotalCount:    totalCount,
	})
}

// notifyExport reports one export-rendering run to the configured
// telemetry observer, when metrics are enabled.
func notifyExport(ctx context.Context, target string, start time.Time, bytesEmitted int) {
	if observer == nil {
		return
	}
	observer.OnEvent(ctx, telemetry.Event{
		Type:         telemetry.EventExportComplete,
		Timestamp:    time.Now(),
		ExportTarget: target,
		Duration:     time.Since(start),
		BytesEmitted: bytesEmitted,
	})
}
