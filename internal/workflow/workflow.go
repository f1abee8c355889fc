// Package workflow implements the bipartite DAG of jobs and paths described
// in spec §3/§4.1: the Workflow graph, its structural invariants, and the
// topological ordering used by export and echo.
package workflow

import (
	"time"
	"unicode"

	"github.com/ajmazurie/spate/internal/job"
	"github.com/ajmazurie/spate/internal/pathreg"
	"github.com/ajmazurie/spate/internal/spateerr"
	"github.com/ajmazurie/spate/internal/template"
)

// PathList is the typed sum described in spec §9 ("Dynamic arguments on
// add_job"): a caller-supplied single path or an ordered sequence of paths,
// normalized internally to an ordered slice.
type PathList struct {
	items  []string
	isMany bool
}

// SinglePath wraps one path as a PathList.
func SinglePath(p string) PathList { return PathList{items: []string{p}} }

// ManyPaths wraps an ordered sequence of paths as a PathList.
func ManyPaths(ps []string) PathList { return PathList{items: ps, isMany: true} }

func (p PathList) slice() []string { return p.items }

// Workflow is a named bipartite DAG of jobs and paths (spec §3).
type Workflow struct {
	name    string
	jobs    *job.Store
	paths   *pathreg.Registry
	engines *template.Registry
	order   []string // job IDs in insertion order, for stable iteration
	seq     int64    // monotonic tiebreak finer than wall-clock resolution
	observer Observer
}

// New creates an empty, named workflow. Fails with InvalidName if name is
// empty or contains control characters (spec §4.1).
func New(name string) (*Workflow, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Workflow{
		name:    name,
		jobs:    job.NewStore(),
		paths:   pathreg.New(),
		engines: template.NewRegistry(),
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return spateerr.New(spateerr.InvalidName, "workflow name must not be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return spateerr.New(spateerr.InvalidName, "workflow name must not contain control characters")
		}
	}
	return nil
}

// Name returns the workflow's name.
func (w *Workflow) Name() string { return w.name }

// Engines returns the workflow's template-engine registry (spec §4.3: the
// active engine is an explicit per-workflow rendering context with a
// process default for convenience).
func (w *Workflow) Engines() *template.Registry { return w.engines }

// NumberOfJobs returns the number of jobs in the workflow.
func (w *Workflow) NumberOfJobs() int { return w.jobs.Len() }

// NumberOfPaths returns the number of registered paths.
func (w *Workflow) NumberOfPaths() int { return w.paths.Len() }

// HasJob reports whether id is a known job.
func (w *Workflow) HasJob(id string) bool { return w.jobs.Has(id) }

// GetJob returns a copy of the job for id, or UnknownJob.
func (w *Workflow) GetJob(id string) (*job.Job, error) {
	j := w.jobs.Get(id)
	if j == nil {
		return nil, spateerr.ErrUnknownJob.WithJob(id)
	}
	return j.Clone(), nil
}

// ListPaths returns every registered path in insertion order (spec §4.1).
func (w *Workflow) ListPaths() []string { return w.paths.List() }

// JobIDs returns every job identifier in insertion order. Satisfies
// internal/outdated.Graph.
func (w *Workflow) JobIDs() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Job returns the live job record for id without cloning it, for read-only
// internal use by the outdatedness analyzer and exporters. Satisfies
// internal/outdated.Graph.
func (w *Workflow) Job(id string) *job.Job { return w.jobs.Get(id) }

// Producer returns the job ID producing path, or "" if unproduced.
// Satisfies internal/outdated.Graph.
func (w *Workflow) Producer(path string) string { return w.paths.Producer(path) }

// AddJobOptions groups add_job's optional arguments (spec §4.1).
type AddJobOptions struct {
	Identifier string
	Template   string
	HasTemplate bool
	Data       map[string]any
}

// AddJob adds a job to the workflow, validating invariants 1-6 atomically:
// on any failure the workflow is left unchanged (spec §3 "Lifecycle", §7
// "Propagation policy"). Success and rejection are both reported to any
// Observer installed via SetObserver.
func (w *Workflow) AddJob(inputs, outputs PathList, opts AddJobOptions) (string, error) {
	id, err := w.addJobLocked(inputs, outputs, opts)
	if err != nil {
		w.notifyRejected(opts.Identifier, err)
		return "", err
	}
	w.notifyAdded(id)
	return id, nil
}

// addJobLocked contains the actual invariant checking and commit logic for
// AddJob, kept separate so the observer notification above always runs
// exactly once regardless of which validation step failed.
func (w *Workflow) addJobLocked(inputs, outputs PathList, opts AddJobOptions) (string, error) {
	rawInputs := inputs.slice()
	rawOutputs := outputs.slice()

	if len(rawInputs) == 0 && len(rawOutputs) == 0 {
		return "", spateerr.ErrEmptyJob
	}

	id := opts.Identifier
	if id == "" {
		id = w.jobs.FreshID()
	} else if w.jobs.Has(id) {
		return "", spateerr.ErrDuplicateJob.WithJob(id)
	}

	normIn, err := normalizeDistinct(rawInputs)
	if err != nil {
		return "", err
	}
	normOut, err := normalizeDistinct(rawOutputs)
	if err != nil {
		return "", err
	}
	if err := disjoint(normIn, normOut); err != nil {
		return "", err
	}

	for _, p := range normOut {
		if !w.paths.CanProduce(p, "") {
			return "", spateerr.ErrDoubleProducer.WithJob(id).WithPath(p)
		}
	}

	candidate := &job.Job{
		ID:          id,
		Template:    opts.Template,
		HasTemplate: opts.HasTemplate,
		Data:        opts.Data,
		Inputs:      normIn,
		Outputs:     normOut,
		CreatedAt:   w.nextTimestamp(),
	}

	if err := w.wouldCycle(candidate); err != nil {
		return "", err
	}

	// All checks passed: commit.
	w.jobs.Put(candidate)
	w.order = append(w.order, id)
	for _, p := range normIn {
		w.paths.AddConsumer(p, id)
	}
	for _, p := range normOut {
		w.paths.AddProducer(p, id)
	}
	return id, nil
}

// nextTimestamp returns a strictly increasing instant for CreatedAt
// tiebreaking, even when AddJob is called faster than the clock's
// resolution.
func (w *Workflow) nextTimestamp() time.Time {
	w.seq++
	return time.Now().Add(time.Duration(w.seq))
}

func normalizeDistinct(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, p := range raw {
		np, err := pathreg.Normalize(p)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[np]; dup {
			return nil, spateerr.ErrDuplicatePath.WithPath(np)
		}
		seen[np] = struct{}{}
		out = append(out, np)
	}
	return out, nil
}

func disjoint(inputs, outputs []string) error {
	seen := make(map[string]struct{}, len(inputs))
	for _, p := range inputs {
		seen[p] = struct{}{}
	}
	for _, p := range outputs {
		if _, ok := seen[p]; ok {
			return spateerr.ErrDuplicatePath.WithPath(p)
		}
	}
	return nil
}

// RemoveJob removes a job and drops orphaned paths (spec §3 "Lifecycle").
// A successful removal is reported to any Observer installed via
// SetObserver; an UnknownJob rejection is not, since Observer models the
// three mutation event types spec §7 defines and has no "remove rejected"
// case.
func (w *Workflow) RemoveJob(id string) error {
	j := w.jobs.Get(id)
	if j == nil {
		return spateerr.ErrUnknownJob.WithJob(id)
	}
	for _, p := range j.Inputs {
		w.paths.RemoveJob(p, id)
	}
	for _, p := range j.Outputs {
		w.paths.RemoveJob(p, id)
	}
	w.jobs.Delete(id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.notifyRemoved(id)
	return nil
}

// buildGraph constructs the job-level graph projection over the workflow's
// current jobs, optionally including one not-yet-committed candidate job.
func (w *Workflow) buildGraph(candidate *job.Job) *jobGraph {
	nodes := make([]string, 0, w.jobs.Len()+1)
	for _, id := range w.order {
		nodes = append(nodes, id)
	}
	if candidate != nil {
		nodes = append(nodes, candidate.ID)
	}

	adj := make(map[string][]string, len(nodes))
	addEdge := func(from, to string) {
		adj[from] = append(adj[from], to)
	}

	for _, path := range w.paths.List() {
		producer := w.paths.Producer(path)
		for _, consumer := range w.paths.Consumers(path) {
			if producer != "" && producer != consumer {
				addEdge(producer, consumer)
			}
		}
	}
	if candidate != nil {
		for _, p := range candidate.Inputs {
			if producer := w.paths.Producer(p); producer != "" {
				addEdge(producer, candidate.ID)
			}
		}
		for _, p := range candidate.Outputs {
			for _, consumer := range w.paths.Consumers(p) {
				addEdge(candidate.ID, consumer)
			}
		}
	}
	return &jobGraph{nodes: nodes, adj: adj}
}

// wouldCycle reports whether committing candidate would introduce a cycle
// in the job-level graph, without mutating the workflow (spec §4.1 "Cycle
// detection").
func (w *Workflow) wouldCycle(candidate *job.Job) error {
	g := w.buildGraph(candidate)
	createdAt := make(map[string]int64, len(g.nodes))
	for _, id := range w.order {
		createdAt[id] = w.jobs.Get(id).CreatedAt.UnixNano()
	}
	createdAt[candidate.ID] = candidate.CreatedAt.UnixNano()

	if _, err := topoSort(g, func(id string) int64 { return createdAt[id] }); err != nil {
		return spateerr.ErrCycle.WithJob(candidate.ID)
	}
	return nil
}

// TopoOrder returns every job identifier in topological order, ties broken
// by (createdAt asc, id asc) (spec §4.1).
func (w *Workflow) TopoOrder() ([]string, error) {
	g := w.buildGraph(nil)
	createdAt := make(map[string]int64, len(g.nodes))
	for _, id := range w.order {
		createdAt[id] = w.jobs.Get(id).CreatedAt.UnixNano()
	}
	order, err := topoSort(g, func(id string) int64 { return createdAt[id] })
	if err != nil {
		return nil, spateerr.ErrCycle
	}
	return order, nil
}

// ListJobs yields job identifiers in topological order. When outdated is
// non-nil, only jobs present in it (and, transitively, their descendants in
// the job graph) are yielded, per spec §4.1 "list_jobs".
func (w *Workflow) ListJobs(outdated map[string]bool) ([]string, error) {
	order, err := w.TopoOrder()
	if err != nil {
		return nil, err
	}
	if outdated == nil {
		return order, nil
	}

	g := w.buildGraph(nil)
	include := make(map[string]bool, len(order))
	for _, id := range order {
		if outdated[id] {
			include[id] = true
		}
	}
	// Propagate to descendants: a single forward pass over topo order is
	// sufficient since every descendant appears after its ancestor.
	for _, id := range order {
		if include[id] {
			continue
		}
		for _, parent := range g.nodes {
			for _, child := range g.adj[parent] {
				if child == id && include[parent] {
					include[id] = true
				}
			}
		}
	}

	out := make([]string, 0, len(include))
	for _, id := range order {
		if include[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// Merge unions two workflows: every job identifier in other must be fresh
// in w, and the combined graph must still satisfy invariants 1-6. On any
// failure w is left unchanged.
func (w *Workflow) Merge(other *Workflow) error {
	for _, id := range other.order {
		if w.jobs.Has(id) {
			err := spateerr.ErrDuplicateJob.WithJob(id)
			w.notifyRejected(id, err)
			return err
		}
	}

	// Validate double-producer across the union before committing anything.
	for _, id := range other.order {
		oj := other.jobs.Get(id)
		for _, p := range oj.Outputs {
			if !w.paths.CanProduce(p, "") {
				err := spateerr.ErrDoubleProducer.WithJob(id).WithPath(p)
				w.notifyRejected(id, err)
				return err
			}
		}
	}

	// Commit jobs one at a time via buildGraph-based cycle checks so the
	// combined graph's acyclicity is verified incrementally; roll back all
	// of them if any step fails, preserving atomicity.
	committed := make([]string, 0, len(other.order))
	rollback := func() {
		for _, id := range committed {
			_ = w.RemoveJob(id)
		}
	}

	for _, id := range other.order {
		oj := other.jobs.Get(id).Clone()
		if err := w.wouldCycle(oj); err != nil {
			rollback()
			w.notifyRejected(id, err)
			return err
		}
		w.jobs.Put(oj)
		w.order = append(w.order, id)
		for _, p := range oj.Inputs {
			w.paths.AddConsumer(p, id)
		}
		for _, p := range oj.Outputs {
			w.paths.AddProducer(p, id)
		}
		committed = append(committed, id)
		w.notifyAdded(id)
	}
	return nil
}

// RenderJob renders a job's template body (if any) using the workflow's
// active engine and the job's derived variable environment. Abstract jobs
// (no template) render to the empty string.
func (w *Workflow) RenderJob(id string) (string, error) {
	j := w.jobs.Get(id)
	if j == nil {
		return "", spateerr.ErrUnknownJob.WithJob(id)
	}
	if !j.HasTemplate {
		return "", nil
	}
	engine, err := w.engines.Engine("")
	if err != nil {
		return "", err
	}
	vars := template.Environment(j.Inputs, j.Outputs)
	rendered, err := engine.Render(j.Template, vars)
	if err != nil {
		if se, ok := err.(*spateerr.Error); ok {
			return "", se.WithJob(id)
		}
		return "", err
	}
	return rendered, nil
}

// JobInputEdges returns the producing job for each of id's inputs that
// currently has one, used by exporters to express dependencies.
func (w *Workflow) JobInputEdges(id string) map[string]string {
	j := w.jobs.Get(id)
	if j == nil {
		return nil
	}
	out := make(map[string]string, len(j.Inputs))
	for _, p := range j.Inputs {
		if producer := w.paths.Producer(p); producer != "" {
			out[p] = producer
		}
	}
	return out
}
