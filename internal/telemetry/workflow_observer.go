package telemetry

import (
	"context"

	"github.com/ajmazurie/spate/internal/workflow"
)

// WorkflowObserverAdapter adapts an Observer to internal/workflow.Observer,
// so add_job/remove_job mutations route through the same OnEvent dispatch
// as analysis and export events instead of a separate code path.
// internal/workflow has no knowledge of this type or this package; it only
// depends on the Observer interface it declares itself.
type WorkflowObserverAdapter struct {
	Observer Observer
}

var _ workflow.Observer = WorkflowObserverAdapter{}

// JobAdded implements workflow.Observer.
func (a WorkflowObserverAdapter) JobAdded(workflowName, jobID string) {
	a.Observer.OnEvent(context.Background(), Event{
		Type:         EventJobAdded,
		WorkflowName: workflowName,
		JobID:        jobID,
	})
}

// JobAddRejected implements workflow.Observer.
func (a WorkflowObserverAdapter) JobAddRejected(workflowName, jobID, errKind string) {
	a.Observer.OnEvent(context.Background(), Event{
		Type:         EventJobAddRejected,
		WorkflowName: workflowName,
		JobID:        jobID,
		ErrorKind:    errKind,
	})
}

// JobRemoved implements workflow.Observer.
func (a WorkflowObserverAdapter) JobRemoved(workflowName, jobID string) {
	a.Observer.OnEvent(context.Background(), Event{
		Type:         EventJobRemoved,
		WorkflowName: workflowName,
		JobID:        jobID,
	})
}
