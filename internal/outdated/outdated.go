// Package outdated implements the outdatedness analysis of spec §4.4: a job
// is locally outdated based on filesystem mtimes, and outdatedness
// propagates transitively through the job-level DAG.
package outdated

import (
	"os"
	"time"

	"github.com/ajmazurie/spate/internal/job"
	"github.com/ajmazurie/spate/internal/spateerr"
)

// Stat abstracts a filesystem stat so tests can inject synthetic
// filesystem state instead of touching a real disk (spec.md is silent on
// how implementations should make this testable; this mirrors how the rest
// of the pack isolates filesystem-touching code from unit tests).
type Stat func(path string) (mtime time.Time, absent bool, err error)

// OSStat is the default Stat backed by os.Stat.
func OSStat(path string) (time.Time, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, true, nil
		}
		return time.Time{}, false, err
	}
	return info.ModTime(), false, nil
}

// Graph is the minimal view of a workflow the analyzer needs: every job's
// ID, inputs, outputs, and a lookup from path to the producing job ID.
type Graph interface {
	JobIDs() []string
	Job(id string) *job.Job
	// TopoOrder returns job IDs in an order where every job appears after
	// all of its producers, so a single forward pass suffices to
	// propagate staleness.
	TopoOrder() ([]string, error)
	// Producer returns the job ID producing path, or "" if unproduced.
	Producer(path string) string
}

// stamp caches one path's stat result for the duration of a single
// Analyze call.
type stamp struct {
	mtime  time.Time
	absent bool
}

type lookupFunc func(path string) (stamp, error)

// Analyze computes the set of outdated job identifiers for g, per spec
// §4.4. stat is called once per distinct input/output path.
func Analyze(g Graph, stat Stat) (map[string]bool, error) {
	order, err := g.TopoOrder()
	if err != nil {
		return nil, err
	}

	cache := make(map[string]stamp)
	var lookup lookupFunc = func(path string) (stamp, error) {
		if s, ok := cache[path]; ok {
			return s, nil
		}
		mtime, absent, err := stat(path)
		if err != nil {
			return stamp{}, spateerr.Newf(spateerr.FilesystemError, "stat failed: %v", err).
				WithPath(path).WithCause(err)
		}
		s := stamp{mtime: mtime, absent: absent}
		cache[path] = s
		return s, nil
	}

	locallyOutdated := make(map[string]bool, len(order))
	for _, id := range order {
		j := g.Job(id)
		outdated, err := isLocallyOutdated(j, lookup)
		if err != nil {
			return nil, err
		}
		locallyOutdated[id] = outdated
	}

	outdated := make(map[string]bool, len(order))
	for _, id := range order {
		if locallyOutdated[id] {
			outdated[id] = true
			continue
		}
		j := g.Job(id)
		for _, p := range j.Inputs {
			producer := g.Producer(p)
			if producer != "" && outdated[producer] {
				outdated[id] = true
				break
			}
		}
	}
	return outdated, nil
}

func isLocallyOutdated(j *job.Job, lookup lookupFunc) (bool, error) {
	hasIn := len(j.Inputs) > 0
	hasOut := len(j.Outputs) > 0

	switch {
	case hasOut && !hasIn:
		// Source job: outdated iff any output is absent.
		for _, p := range j.Outputs {
			s, err := lookup(p)
			if err != nil {
				return false, err
			}
			if s.absent {
				return true, nil
			}
		}
		return false, nil

	case hasIn && !hasOut:
		// Sink job: always runnable if any input exists.
		for _, p := range j.Inputs {
			s, err := lookup(p)
			if err != nil {
				return false, err
			}
			if !s.absent {
				return true, nil
			}
		}
		return false, nil

	default:
		// Both inputs and outputs: outdated if any output is absent, or
		// min(output mtime) < max(input mtime).
		var maxIn time.Time
		for _, p := range j.Inputs {
			s, err := lookup(p)
			if err != nil {
				return false, err
			}
			if !s.absent && s.mtime.After(maxIn) {
				maxIn = s.mtime
			}
		}

		var minOut time.Time
		first := true
		for _, p := range j.Outputs {
			s, err := lookup(p)
			if err != nil {
				return false, err
			}
			if s.absent {
				return true, nil
			}
			if first || s.mtime.Before(minOut) {
				minOut = s.mtime
				first = false
			}
		}
		return minOut.Before(maxIn), nil
	}
}
