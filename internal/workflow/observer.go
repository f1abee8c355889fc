package workflow

import (
	"errors"

	"github.com/ajmazurie/spate/internal/spateerr"
)

// Observer receives job-mutation notifications from AddJob, RemoveJob, and
// Merge. It exists so callers that care about telemetry (cmd/spate, or any
// other program embedding this package) can observe graph mutations
// without the graph itself depending on a telemetry package: the core
// defines the minimal interface it needs, an ambient package implements it
// (spec §5: the core is a pure, non-suspending in-memory model).
type Observer interface {
	JobAdded(workflowName, jobID string)
	JobAddRejected(workflowName, jobID, errKind string)
	JobRemoved(workflowName, jobID string)
}

// SetObserver installs o to be notified of every subsequent job addition
// and add rejection made by AddJob and Merge, and of every successful
// removal made by RemoveJob (including Merge's rollback); a RemoveJob call
// rejected as UnknownJob is not reported. Passing nil detaches any
// previously set observer; a freshly constructed Workflow has none.
func (w *Workflow) SetObserver(o Observer) { w.observer = o }

func (w *Workflow) notifyAdded(id string) {
	if w.observer != nil {
		w.observer.JobAdded(w.name, id)
	}
}

func (w *Workflow) notifyRejected(id string, err error) {
	if w.observer != nil {
		w.observer.JobAddRejected(w.name, id, errorKind(err))
	}
}

func (w *Workflow) notifyRemoved(id string) {
	if w.observer != nil {
		w.observer.JobRemoved(w.name, id)
	}
}

// errorKind extracts the SpateError kind from err for observer reporting,
// falling back to "unknown" for errors outside this codebase's own family.
func errorKind(err error) string {
	var se *spateerr.Error
	if errors.As(err, &se) {
		return string(se.Kind)
	}
	return "unknown"
}
