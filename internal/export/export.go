// Package export renders a workflow to one of six external execution
// targets (plain shell, Makefile, Makeflow, Drake, SLURM sbatch, TORQUE/PBS
// job array), plus a plain-text dependency listing for external graph
// layout tools.
//
// Every exporter is a function of (workflow, Options) -> text: none of them
// write to the filesystem or mutate the workflow they're given. Targets
// that honor OutdatedOnly read file modification times through
// Options.Stat (outdated.OSStat by default) when it is set.
package export

import (
	"sort"

	"github.com/ajmazurie/spate/internal/outdated"
	"github.com/ajmazurie/spate/internal/spateerr"
	"github.com/ajmazurie/spate/internal/workflow"
)

// Options controls what an exporter includes and how job bodies are
// wrapped. OutdatedOnly is false in the zero value; cmd/spate sets it from
// config.OutdatedOnlyDefault (true) for the targets that filter (shell,
// SLURM, TORQUE); targets that let the downstream tool handle dependency
// resolution (Make, Makeflow, Drake) ignore it.
type Options struct {
	// OutdatedOnly restricts the emitted job list to outdated jobs and
	// their transitive descendants. Ignored by targets whose downstream
	// tool already handles up-to-date skipping.
	OutdatedOnly bool
	// Stat supplies filesystem state to the outdatedness analyzer when
	// OutdatedOnly is set. Defaults to outdated.OSStat.
	Stat outdated.Stat
	// Shell selects the shebang/submission shell for targets that spawn
	// one (shell script, SLURM/TORQUE driver scripts). Defaults to
	// "/bin/bash".
	Shell string
}

func (o Options) stat() outdated.Stat {
	if o.Stat != nil {
		return o.Stat
	}
	return outdated.OSStat
}

func (o Options) shell() string {
	if o.Shell != "" {
		return o.Shell
	}
	return "/bin/bash"
}

// Exporter renders a workflow to one target-specific text.
type Exporter interface {
	Name() string
	Render(w *workflow.Workflow, opts Options) (string, error)
}

// renderedJob is the common per-job view every exporter works from: its
// identifier, rendered body (empty for abstract jobs), and path lists.
type renderedJob struct {
	ID      string
	Body    string
	Inputs  []string
	Outputs []string
}

// jobList resolves the ordered, optionally-filtered job list and renders
// each job's template, following §4.6's common three-step structure:
// compute the list, render each body, hand off to the target.
func jobList(w *workflow.Workflow, filter bool, stat outdated.Stat) ([]renderedJob, error) {
	var outdatedSet map[string]bool
	if filter {
		var err error
		outdatedSet, err = outdated.Analyze(w, stat)
		if err != nil {
			return nil, err
		}
	}

	ids, err := w.ListJobs(outdatedSet)
	if err != nil {
		return nil, err
	}

	out := make([]renderedJob, 0, len(ids))
	for _, id := range ids {
		body, err := w.RenderJob(id)
		if err != nil {
			return nil, err
		}
		j, err := w.GetJob(id)
		if err != nil {
			return nil, err
		}
		out = append(out, renderedJob{ID: id, Body: body, Inputs: j.Inputs, Outputs: j.Outputs})
	}
	return out, nil
}

// dependencyJobs returns the sorted, de-duplicated list of job IDs that
// produce any of j's inputs, for targets expressing job-level dependency
// arguments (currently only SLURM).
func dependencyJobs(w *workflow.Workflow, id string) []string {
	edges := w.JobInputEdges(id)
	seen := make(map[string]struct{}, len(edges))
	for _, producer := range edges {
		seen[producer] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for producer := range seen {
		out = append(out, producer)
	}
	sort.Strings(out)
	return out
}

// Registry resolves a target name to its Exporter, the way
// internal/template.Registry resolves engine names.
type Registry struct {
	exporters map[string]Exporter
}

// NewRegistry returns a Registry pre-populated with all six targets.
func NewRegistry() *Registry {
	r := &Registry{exporters: make(map[string]Exporter)}
	for _, e := range []Exporter{
		&shellExporter{},
		&makefileExporter{},
		&makeflowExporter{},
		&drakeExporter{},
		&slurmExporter{},
		&torqueExporter{},
	} {
		r.exporters[e.Name()] = e
	}
	return r
}

// Exporter resolves name to its Exporter.
func (r *Registry) Exporter(name string) (Exporter, error) {
	e, ok := r.exporters[name]
	if !ok {
		return nil, spateerr.Newf(spateerr.TemplateError, "unknown export target %q", name)
	}
	return e, nil
}
