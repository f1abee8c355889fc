// Package echo renders the human-readable job listing described in spec
// §4.7: per job, inputs prefixed "<", the identifier (optionally decorated
// with a status marker), outputs prefixed ">", a blank line, and a trailing
// total line.
package echo

import (
	"fmt"
	"strings"

	"github.com/ajmazurie/spate/internal/spateerr"
)

// Options controls echo formatting. Colorized output requires decoration,
// matching spec §4.7's API-boundary validation ("colorized=true with
// decorated=false is rejected").
type Options struct {
	Decorated bool
	Colorized bool
}

func (o Options) validate() error {
	if o.Colorized && !o.Decorated {
		return spateerr.New(spateerr.InvalidName, "colorized echo output requires decorated=true")
	}
	return nil
}

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// Job is the minimal view echo needs of one listed job.
type Job struct {
	ID       string
	Inputs   []string
	Outputs  []string
	Outdated bool
}

// Render formats jobs (already in the caller's desired, typically
// topological, order) per opts, returning the full stanza text plus the
// trailing "total: K outdated jobs (out of N)" line.
func Render(jobs []Job, opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	outdatedCount := 0
	for _, j := range jobs {
		if j.Outdated {
			outdatedCount++
		}
		for _, in := range j.Inputs {
			fmt.Fprintf(&b, "< %s\n", in)
		}
		fmt.Fprintln(&b, decorate(j, opts))
		for _, out := range j.Outputs {
			fmt.Fprintf(&b, "> %s\n", out)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "total: %d outdated jobs (out of %d)\n", outdatedCount, len(jobs))
	return b.String(), nil
}

func decorate(j Job, opts Options) string {
	id := j.ID
	if !opts.Decorated {
		return id
	}
	marker := "."
	color := ansiGreen
	if j.Outdated {
		marker = "*"
		color = ansiRed
	}
	label := id + " " + marker
	if !opts.Colorized {
		return label
	}
	return color + label + ansiReset
}
