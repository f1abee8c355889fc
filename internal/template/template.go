// Package template implements the two pluggable job-body substitution
// engines from spec §4.3: a classic shell-style "$NAME"/"${NAME}" engine
// and a Mustache-flavored engine supporting scalar substitution, list
// iteration, and inverted sections.
//
// Rendering is a pure function (template string, Vars) -> (string, error):
// no engine holds mutable state across calls.
package template

import (
	"strconv"

	"github.com/ajmazurie/spate/internal/spateerr"
)

// Value is a template variable: either a scalar string or a list of
// scalars (used by INPUTS/OUTPUTS list iteration).
type Value struct {
	Scalar string
	List   []string
	IsList bool
}

func Scalar(s string) Value { return Value{Scalar: s} }
func List(items []string) Value {
	return Value{List: items, IsList: true}
}

// Vars is the per-job variable environment: a flat name -> Value map.
type Vars map[string]Value

// Engine renders a template body against a variable environment.
type Engine interface {
	// Name identifies the engine for workflow-document round-tripping and
	// the Registry lookup below.
	Name() string
	Render(body string, vars Vars) (string, error)
}

// Registry maps an engine name to its Engine, so additional engines can be
// registered without changing callers, and records which engine is active
// (each internal/workflow.Workflow owns one Registry, so the active engine
// is a per-workflow selection).
type Registry struct {
	engines map[string]Engine
	active  string
}

// NewRegistry returns a Registry pre-populated with the two built-in
// engines, defaulting to Mustache (the richer of the two, matching what a
// freshly created workflow needs for list-valued jobs).
func NewRegistry() *Registry {
	r := &Registry{engines: make(map[string]Engine)}
	r.Register(NewSimple())
	r.Register(NewMustache())
	r.active = "mustache"
	return r
}

// Register adds or replaces an engine under its own Name().
func (r *Registry) Register(e Engine) {
	r.engines[e.Name()] = e
}

// SetActive selects the process/workflow-level default engine by name. It
// is a pure configuration change (spec §4.3): it never mutates jobs.
func (r *Registry) SetActive(name string) error {
	if _, ok := r.engines[name]; !ok {
		return spateerr.Newf(spateerr.TemplateError, "unknown template engine %q", name)
	}
	r.active = name
	return nil
}

// Active returns the name of the currently selected engine.
func (r *Registry) Active() string { return r.active }

// Engine resolves a name to its Engine, falling back to the active engine
// when name is empty.
func (r *Registry) Engine(name string) (Engine, error) {
	if name == "" {
		name = r.active
	}
	e, ok := r.engines[name]
	if !ok {
		return nil, spateerr.Newf(spateerr.TemplateError, "unknown template engine %q", name)
	}
	return e, nil
}

// Environment builds the per-job variable environment described in spec
// §4.3 from a job's ordered input and output paths.
func Environment(inputs, outputs []string) Vars {
	vars := make(Vars, 4+len(inputs)+len(outputs))
	fill := func(prefix string, paths []string) {
		if len(paths) > 0 {
			vars[prefix] = Scalar(paths[0])
		} else {
			vars[prefix] = Scalar("")
		}
		for i, p := range paths {
			vars[prefix+strconv.Itoa(i)] = Scalar(p)
		}
		vars[prefix+"S"] = List(paths)
		vars[prefix+"N"] = Scalar(strconv.Itoa(len(paths)))
	}
	fill("INPUT", inputs)
	fill("OUTPUT", outputs)
	return vars
}
