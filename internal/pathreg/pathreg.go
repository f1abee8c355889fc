// Package pathreg interns path strings for a workflow and tracks, for each
// normalized path, the set of jobs that produce and consume it.
//
// It never touches the filesystem; see internal/outdated for that.
package pathreg

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ajmazurie/spate/internal/spateerr"
)

// Entry tracks the jobs referencing a single normalized path.
type Entry struct {
	// Producers holds at most one job identifier (single-writer, §3
	// invariant 3); it is a slice rather than a pointer so the zero value
	// is directly usable and the "no producer" case needs no sentinel.
	Producers []string
	Consumers map[string]struct{}
}

// Registry is a mapping from normalized path string to Entry.
type Registry struct {
	entries map[string]*Entry
	// order records first-insertion order so ListPaths can report paths
	// the way they were first registered (spec §4.1 list_paths).
	order []string
}

// New creates an empty path registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Normalize trims surrounding whitespace and applies Unicode NFC
// normalization so visually/canonically identical paths that differ only in
// combining-character composition intern to the same registry entry. Case
// and path separators are preserved exactly, per spec §4.2.
func Normalize(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", spateerr.Newf(spateerr.InvalidName, "path is empty after normalization")
	}
	return norm.NFC.String(trimmed), nil
}

// Has reports whether a normalized path is currently registered.
func (r *Registry) Has(path string) bool {
	_, ok := r.entries[path]
	return ok
}

// Get returns the entry for a path, or nil if unregistered.
func (r *Registry) Get(path string) *Entry {
	return r.entries[path]
}

// ensure returns the entry for path, creating and recording insertion order
// if this is the first reference.
func (r *Registry) ensure(path string) *Entry {
	e, ok := r.entries[path]
	if ok {
		return e
	}
	e = &Entry{Consumers: make(map[string]struct{})}
	r.entries[path] = e
	r.order = append(r.order, path)
	return e
}

// AddConsumer records that job consumes path.
func (r *Registry) AddConsumer(path, job string) {
	r.ensure(path).Consumers[job] = struct{}{}
}

// AddProducer records that job produces path. Callers must check
// CanProduce first; this does not enforce the single-writer invariant.
func (r *Registry) AddProducer(path, job string) {
	e := r.ensure(path)
	e.Producers = append(e.Producers, job)
}

// CanProduce reports whether path has no existing producer other than
// (optionally) allowExisting itself, implementing §3 invariant 3.
func (r *Registry) CanProduce(path string, allowExisting string) bool {
	e := r.entries[path]
	if e == nil || len(e.Producers) == 0 {
		return true
	}
	return len(e.Producers) == 1 && e.Producers[0] == allowExisting
}

// RemoveJob drops job from every producer/consumer set it appears in for
// path, and removes the path entirely if it becomes orphaned (no producers,
// no consumers), per spec §3 "Lifecycle".
func (r *Registry) RemoveJob(path, job string) {
	e := r.entries[path]
	if e == nil {
		return
	}
	delete(e.Consumers, job)
	if len(e.Producers) == 1 && e.Producers[0] == job {
		e.Producers = nil
	}
	if len(e.Producers) == 0 && len(e.Consumers) == 0 {
		delete(r.entries, path)
		for i, p := range r.order {
			if p == path {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
}

// List returns every registered path in first-insertion order.
func (r *Registry) List() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered paths.
func (r *Registry) Len() int { return len(r.entries) }

// Producer returns the sole producing job of path, or "" if absent or
// unproduced.
func (r *Registry) Producer(path string) string {
	e := r.entries[path]
	if e == nil || len(e.Producers) == 0 {
		return ""
	}
	return e.Producers[0]
}

// Consumers returns the consuming jobs of path in sorted order, for
// deterministic iteration by callers that need it (e.g. cycle detection).
func (r *Registry) Consumers(path string) []string {
	e := r.entries[path]
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.Consumers))
	for j := range e.Consumers {
		out = append(out, j)
	}
	sort.Strings(out)
	return out
}
