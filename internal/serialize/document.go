// Package serialize implements the deterministic textual encoding of spec
// §4.5: a YAML key/value document, with optional transparent gzip
// compression by file suffix, and JSON-Schema-validated reload.
package serialize

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ajmazurie/spate/internal/job"
	"github.com/ajmazurie/spate/internal/spateerr"
	"github.com/ajmazurie/spate/internal/workflow"
)

// Document is the on-disk shape described in spec §4.5.
type Document struct {
	Name string    `yaml:"name"`
	Jobs []DocJob  `yaml:"jobs"`
	// Engine records the workflow's default rendering engine so it
	// round-trips (spec §8's round-trip law, extended per SPEC_FULL's
	// "engine selection is per-workflow" supplement).
	Engine string `yaml:"engine,omitempty"`
}

// DocJob is one job's serialized form.
type DocJob struct {
	ID        string         `yaml:"id"`
	Inputs    []string       `yaml:"inputs"`
	Outputs   []string       `yaml:"outputs"`
	Template  *string        `yaml:"template"`
	Data      map[string]any `yaml:"data"`
	CreatedAt int64          `yaml:"created_at"`
}

// BuildDocument renders w into its Document form: jobs in topological
// order, paths in the order they appear within each job (spec §4.5).
func BuildDocument(w *workflow.Workflow) (*Document, error) {
	order, err := w.TopoOrder()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Name:   w.Name(),
		Jobs:   make([]DocJob, 0, len(order)),
		Engine: w.Engines().Active(),
	}
	for _, id := range order {
		j, err := w.GetJob(id)
		if err != nil {
			return nil, err
		}
		doc.Jobs = append(doc.Jobs, docJobFrom(j))
	}
	return doc, nil
}

func docJobFrom(j *job.Job) DocJob {
	dj := DocJob{
		ID:        j.ID,
		Inputs:    append([]string(nil), j.Inputs...),
		Outputs:   append([]string(nil), j.Outputs...),
		Data:      j.Data,
		CreatedAt: j.CreatedAt.UnixMilli(),
	}
	if j.HasTemplate {
		t := j.Template
		dj.Template = &t
	}
	return dj
}

// Rebuild reconstructs a Workflow from doc. Jobs are added in document
// order, which BuildDocument guarantees is topological, so the
// reconstructed workflow's own topological sort reproduces the same order
// (spec §8 round-trip law): AddJob assigns strictly increasing creation
// timestamps in insertion order, and inserting in an already-topological
// order keeps those timestamps consistent with the DAG's edges.
func Rebuild(doc *Document) (*workflow.Workflow, error) {
	return RebuildWithObserver(doc, nil)
}

// RebuildWithObserver behaves like Rebuild but installs observer on the
// reconstructed workflow before replaying doc's jobs, so each job in the
// document also fires an Observer notification (e.g. telemetry) as it is
// re-added. Passing nil is equivalent to Rebuild.
func RebuildWithObserver(doc *Document, observer workflow.Observer) (*workflow.Workflow, error) {
	w, err := workflow.New(doc.Name)
	if err != nil {
		return nil, err
	}
	w.SetObserver(observer)
	if doc.Engine != "" {
		if err := w.Engines().SetActive(doc.Engine); err != nil {
			return nil, spateerr.New(spateerr.SerializationError, "unknown engine in document: "+doc.Engine).WithCause(err)
		}
	}

	for _, dj := range doc.Jobs {
		opts := workflow.AddJobOptions{
			Identifier: dj.ID,
			Data:       dj.Data,
		}
		if dj.Template != nil {
			opts.HasTemplate = true
			opts.Template = *dj.Template
		}
		if _, err := w.AddJob(workflow.ManyPaths(dj.Inputs), workflow.ManyPaths(dj.Outputs), opts); err != nil {
			return nil, spateerr.New(spateerr.SerializationError, "invariant violated while reloading job "+dj.ID).WithCause(err)
		}
	}
	return w, nil
}

// Marshal renders doc as YAML bytes.
func Marshal(doc *Document) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, spateerr.New(spateerr.SerializationError, "encoding workflow document").WithCause(err)
	}
	return out, nil
}

// Unmarshal validates raw against the document schema and decodes it.
func Unmarshal(raw []byte) (*Document, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, spateerr.New(spateerr.SerializationError, "decoding workflow document").WithCause(err)
	}
	return &doc, nil
}

// epochMillis is a small unexported helper kept for symmetry with
// DocJob.CreatedAt's unit (milliseconds since the epoch); nothing in this
// package calls it.
func epochMillis(t time.Time) int64 { return t.UnixMilli() }
