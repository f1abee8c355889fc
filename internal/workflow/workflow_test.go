package workflow

import (
	"errors"
	"testing"

	"github.com/ajmazurie/spate/internal/spateerr"
)

func mustNew(t *testing.T, name string) *Workflow {
	t.Helper()
	w, err := New(name)
	if err != nil {
		t.Fatalf("New(%q) unexpected error: %v", name, err)
	}
	return w
}

func TestNew_InvalidName(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"control char", "foo\x00bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.in); !spateerr.Of(err, spateerr.InvalidName) {
				t.Fatalf("New(%q) error = %v, want InvalidName", tt.in, err)
			}
		})
	}
}

// basicAB builds scenario 1 from spec §8: x = A -> B, C; y = A, C -> D.
func basicAB(t *testing.T) *Workflow {
	t.Helper()
	w := mustNew(t, "example-1")
	if _, err := w.AddJob(SinglePath("A"), ManyPaths([]string{"B", "C"}), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("adding x: %v", err)
	}
	if _, err := w.AddJob(ManyPaths([]string{"A", "C"}), SinglePath("D"), AddJobOptions{Identifier: "y"}); err != nil {
		t.Fatalf("adding y: %v", err)
	}
	return w
}

func TestAddJob_BasicScenario(t *testing.T) {
	w := basicAB(t)
	if got := w.NumberOfJobs(); got != 2 {
		t.Fatalf("NumberOfJobs() = %d, want 2", got)
	}
	if got := w.NumberOfPaths(); got != 4 {
		t.Fatalf("NumberOfPaths() = %d, want 4", got)
	}
	order, err := w.ListJobs(nil)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(order) != 2 || order[0] != "x" || order[1] != "y" {
		t.Fatalf("ListJobs() = %v, want [x y]", order)
	}
}

func TestAddJob_EmptyJob(t *testing.T) {
	w := mustNew(t, "w")
	_, err := w.AddJob(ManyPaths(nil), ManyPaths(nil), AddJobOptions{})
	if !spateerr.Of(err, spateerr.EmptyJob) {
		t.Fatalf("error = %v, want EmptyJob", err)
	}
	if w.NumberOfJobs() != 0 || w.NumberOfPaths() != 0 {
		t.Fatalf("workflow mutated on rejected add_job")
	}
}

func TestAddJob_DuplicateJob(t *testing.T) {
	w := mustNew(t, "w")
	if _, err := w.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := w.AddJob(SinglePath("C"), SinglePath("D"), AddJobOptions{Identifier: "x"})
	if !spateerr.Of(err, spateerr.DuplicateJob) {
		t.Fatalf("error = %v, want DuplicateJob", err)
	}
}

func TestAddJob_DuplicatePath(t *testing.T) {
	t.Run("within inputs", func(t *testing.T) {
		w := mustNew(t, "w")
		_, err := w.AddJob(ManyPaths([]string{"A", "A"}), SinglePath("B"), AddJobOptions{})
		if !spateerr.Of(err, spateerr.DuplicatePath) {
			t.Fatalf("error = %v, want DuplicatePath", err)
		}
	})
	t.Run("across inputs and outputs", func(t *testing.T) {
		w := mustNew(t, "w")
		_, err := w.AddJob(SinglePath("A"), SinglePath("A"), AddJobOptions{})
		if !spateerr.Of(err, spateerr.DuplicatePath) {
			t.Fatalf("error = %v, want DuplicatePath", err)
		}
	})
}

func TestAddJob_DoubleProducer_Rejection(t *testing.T) {
	w := basicAB(t)
	_, err := w.AddJob(SinglePath("E"), SinglePath("B"), AddJobOptions{Identifier: "z"})
	if !spateerr.Of(err, spateerr.DoubleProducer) {
		t.Fatalf("error = %v, want DoubleProducer", err)
	}
	if w.NumberOfJobs() != 2 {
		t.Fatalf("workflow mutated on rejected add_job: %d jobs", w.NumberOfJobs())
	}
}

func TestAddJob_CycleRejection(t *testing.T) {
	w := basicAB(t)
	_, err := w.AddJob(SinglePath("D"), SinglePath("A"), AddJobOptions{Identifier: "z"})
	if !spateerr.Of(err, spateerr.Cycle) {
		t.Fatalf("error = %v, want Cycle", err)
	}
	if w.NumberOfJobs() != 2 {
		t.Fatalf("workflow mutated on rejected add_job")
	}
}

func TestAddJob_FreshIdentifier(t *testing.T) {
	w := mustNew(t, "w")
	id1, err := w.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{})
	if err != nil {
		t.Fatalf("add 1: %v", err)
	}
	if id1 != "job_0" {
		t.Fatalf("first auto id = %q, want job_0", id1)
	}
	id2, err := w.AddJob(SinglePath("C"), SinglePath("D"), AddJobOptions{})
	if err != nil {
		t.Fatalf("add 2: %v", err)
	}
	if id2 != "job_1" {
		t.Fatalf("second auto id = %q, want job_1", id2)
	}
}

func TestRemoveJob_OrphansPath(t *testing.T) {
	w := mustNew(t, "w")
	if _, err := w.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := w.NumberOfPaths(); got != 2 {
		t.Fatalf("NumberOfPaths() = %d, want 2", got)
	}
	if err := w.RemoveJob("x"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := w.NumberOfJobs(); got != 0 {
		t.Fatalf("NumberOfJobs() = %d, want 0", got)
	}
	if got := w.NumberOfPaths(); got != 0 {
		t.Fatalf("NumberOfPaths() = %d, want 0 (orphaned path not dropped)", got)
	}
}

func TestRemoveJob_SharedPathSurvives(t *testing.T) {
	w := mustNew(t, "w")
	if _, err := w.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("add x: %v", err)
	}
	if _, err := w.AddJob(SinglePath("B"), SinglePath("C"), AddJobOptions{Identifier: "y"}); err != nil {
		t.Fatalf("add y: %v", err)
	}
	if err := w.RemoveJob("x"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := w.NumberOfPaths(); got != 2 {
		t.Fatalf("NumberOfPaths() = %d, want 2 (B and C survive)", got)
	}
}

func TestRemoveJob_UnknownJob(t *testing.T) {
	w := mustNew(t, "w")
	err := w.RemoveJob("nope")
	if !spateerr.Of(err, spateerr.UnknownJob) {
		t.Fatalf("error = %v, want UnknownJob", err)
	}
}

func TestGetJob_UnknownJob(t *testing.T) {
	w := mustNew(t, "w")
	_, err := w.GetJob("nope")
	if !errors.Is(err, spateerr.ErrUnknownJob) {
		t.Fatalf("error = %v, want UnknownJob via errors.Is", err)
	}
}

func TestListJobs_OutdatedOnlyIncludesDescendants(t *testing.T) {
	w := basicAB(t)
	// Only x is locally outdated; y must be pulled in transitively because
	// it consumes x's output C.
	outdated := map[string]bool{"x": true}
	ids, err := w.ListJobs(outdated)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "x" || ids[1] != "y" {
		t.Fatalf("ListJobs(outdated) = %v, want [x y]", ids)
	}
}

func TestListJobs_OutdatedOnlyExcludesUnrelated(t *testing.T) {
	w := mustNew(t, "w")
	if _, err := w.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("add x: %v", err)
	}
	if _, err := w.AddJob(SinglePath("C"), SinglePath("D"), AddJobOptions{Identifier: "y"}); err != nil {
		t.Fatalf("add y: %v", err)
	}
	ids, err := w.ListJobs(map[string]bool{"x": true})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "x" {
		t.Fatalf("ListJobs(outdated) = %v, want [x]", ids)
	}
}

func TestMerge_DisjointWorkflows(t *testing.T) {
	a := mustNew(t, "a")
	if _, err := a.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("add to a: %v", err)
	}
	b := mustNew(t, "b")
	if _, err := b.AddJob(SinglePath("B"), SinglePath("C"), AddJobOptions{Identifier: "y"}); err != nil {
		t.Fatalf("add to b: %v", err)
	}
	if err := a.Merge(b); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if a.NumberOfJobs() != 2 {
		t.Fatalf("NumberOfJobs() = %d, want 2", a.NumberOfJobs())
	}
}

func TestMerge_DuplicateJobRejectedAtomically(t *testing.T) {
	a := mustNew(t, "a")
	if _, err := a.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("add to a: %v", err)
	}
	b := mustNew(t, "b")
	if _, err := b.AddJob(SinglePath("C"), SinglePath("D"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("add to b: %v", err)
	}
	if err := a.Merge(b); !spateerr.Of(err, spateerr.DuplicateJob) {
		t.Fatalf("error = %v, want DuplicateJob", err)
	}
	if a.NumberOfJobs() != 1 {
		t.Fatalf("a mutated on rejected merge: %d jobs", a.NumberOfJobs())
	}
}

func TestRenderJob_AbstractJobRendersEmpty(t *testing.T) {
	w := mustNew(t, "w")
	id, err := w.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := w.RenderJob(id)
	if err != nil {
		t.Fatalf("RenderJob: %v", err)
	}
	if got != "" {
		t.Fatalf("RenderJob(abstract) = %q, want empty", got)
	}
}

func TestRenderJob_Mustache(t *testing.T) {
	w := mustNew(t, "w")
	id, err := w.AddJob(ManyPaths([]string{"A", "C"}), SinglePath("D"), AddJobOptions{
		HasTemplate: true,
		Template:    "cat {{#INPUTS}}{{.}} {{/INPUTS}}> {{OUTPUT}}",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := w.RenderJob(id)
	if err != nil {
		t.Fatalf("RenderJob: %v", err)
	}
	if want := "cat A C > D"; got != want {
		t.Fatalf("RenderJob() = %q, want %q", got, want)
	}
}

func TestAddRemoveAdd_PathRegistryRestored(t *testing.T) {
	w := mustNew(t, "w")
	if _, err := w.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := w.RemoveJob("x"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if w.NumberOfPaths() != 0 {
		t.Fatalf("paths not restored: %d", w.NumberOfPaths())
	}
	if _, err := w.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if w.NumberOfPaths() != 2 {
		t.Fatalf("NumberOfPaths() = %d, want 2", w.NumberOfPaths())
	}
}

func TestAddJob_OrderIndependence(t *testing.T) {
	build := func(first, second func(*Workflow) error) *Workflow {
		w := mustNew(t, "example-1")
		if err := first(w); err != nil {
			t.Fatalf("first add: %v", err)
		}
		if err := second(w); err != nil {
			t.Fatalf("second add: %v", err)
		}
		return w
	}
	addX := func(w *Workflow) error {
		_, err := w.AddJob(SinglePath("A"), ManyPaths([]string{"B", "C"}), AddJobOptions{Identifier: "x"})
		return err
	}
	addY := func(w *Workflow) error {
		_, err := w.AddJob(ManyPaths([]string{"A", "C"}), SinglePath("D"), AddJobOptions{Identifier: "y"})
		return err
	}

	w1 := build(addX, addY)
	w2 := build(addY, addX)

	order1, err := w1.TopoOrder()
	if err != nil {
		t.Fatalf("TopoOrder w1: %v", err)
	}
	order2, err := w2.TopoOrder()
	if err != nil {
		t.Fatalf("TopoOrder w2: %v", err)
	}
	if len(order1) != len(order2) || order1[0] != order2[0] || order1[1] != order2[1] {
		t.Fatalf("topo order depends on add_job call order: %v vs %v", order1, order2)
	}
}

// recordingObserver captures every notification it receives, for asserting
// on Observer wiring without pulling in the telemetry package.
type recordingObserver struct {
	added    []string
	rejected []string
	removed  []string
}

func (o *recordingObserver) JobAdded(workflowName, jobID string) {
	o.added = append(o.added, jobID)
}

func (o *recordingObserver) JobAddRejected(workflowName, jobID, errKind string) {
	o.rejected = append(o.rejected, errKind)
}

func (o *recordingObserver) JobRemoved(workflowName, jobID string) {
	o.removed = append(o.removed, jobID)
}

func TestObserver_NotifiedOnAddAndRemove(t *testing.T) {
	w := mustNew(t, "example-1")
	obs := &recordingObserver{}
	w.SetObserver(obs)

	if _, err := w.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if got := obs.added; len(got) != 1 || got[0] != "x" {
		t.Fatalf("JobAdded calls = %v, want [x]", got)
	}

	if err := w.RemoveJob("x"); err != nil {
		t.Fatalf("RemoveJob: %v", err)
	}
	if got := obs.removed; len(got) != 1 || got[0] != "x" {
		t.Fatalf("JobRemoved calls = %v, want [x]", got)
	}
}

func TestObserver_NotifiedOnRejection(t *testing.T) {
	w := mustNew(t, "example-1")
	obs := &recordingObserver{}
	w.SetObserver(obs)

	if _, err := w.AddJob(PathList{}, PathList{}, AddJobOptions{}); err == nil {
		t.Fatal("expected EmptyJob rejection")
	}
	if got := obs.rejected; len(got) != 1 || got[0] != string(spateerr.EmptyJob) {
		t.Fatalf("JobAddRejected calls = %v, want [%s]", got, spateerr.EmptyJob)
	}

	if _, err := w.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "x"}); err != nil {
		t.Fatalf("AddJob x: %v", err)
	}
	if _, err := w.AddJob(SinglePath("C"), SinglePath("B"), AddJobOptions{Identifier: "y"}); !errors.Is(err, spateerr.ErrDoubleProducer) {
		t.Fatalf("AddJob y error = %v, want DoubleProducer", err)
	}
	if got := obs.rejected; len(got) != 2 || got[1] != string(spateerr.DoubleProducer) {
		t.Fatalf("JobAddRejected calls = %v, want second entry double_producer", got)
	}
}

func TestObserver_NotifiedDuringMerge(t *testing.T) {
	w := mustNew(t, "example-1")
	obs := &recordingObserver{}
	w.SetObserver(obs)

	other := mustNew(t, "example-2")
	if _, err := other.AddJob(SinglePath("A"), SinglePath("B"), AddJobOptions{Identifier: "z"}); err != nil {
		t.Fatalf("seeding other: %v", err)
	}

	if err := w.Merge(other); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := obs.added; len(got) != 1 || got[0] != "z" {
		t.Fatalf("JobAdded calls during Merge = %v, want [z]", got)
	}
}
