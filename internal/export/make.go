package export

import (
	"fmt"
	"strings"

	"github.com/ajmazurie/spate/internal/workflow"
)

// makefileExporter renders a Makefile: one rule per job with its outputs
// as targets and its inputs as prerequisites, plus a phony "all" target
// depending on every terminal output (an output that is nobody's input).
// Make's own timestamp comparison does the outdated filtering, so §4.6's
// outdated_only flag is ignored here.
type makefileExporter struct{}

func (*makefileExporter) Name() string { return "makefile" }

func (*makefileExporter) Render(w *workflow.Workflow, opts Options) (string, error) {
	jobs, err := jobList(w, false, opts.stat())
	if err != nil {
		return "", err
	}

	consumed := make(map[string]bool)
	for _, j := range jobs {
		for _, p := range j.Inputs {
			consumed[p] = true
		}
	}

	var terminal []string
	for _, j := range jobs {
		for _, p := range j.Outputs {
			if !consumed[p] {
				terminal = append(terminal, p)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, ".PHONY: all\n")
	fmt.Fprintf(&b, "all: %s\n\n", strings.Join(terminal, " "))

	for _, j := range jobs {
		fmt.Fprintf(&b, "%s: %s\n", strings.Join(j.Outputs, " "), strings.Join(j.Inputs, " "))
		if j.Body != "" {
			for _, line := range strings.Split(strings.TrimRight(j.Body, "\n"), "\n") {
				fmt.Fprintf(&b, "\t%s\n", line)
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// makeflowExporter renders the same rule-per-job structure as Make, minus
// the phony "all" convenience target, following Makeflow's own file-level
// prerequisite syntax (§6).
type makeflowExporter struct{}

func (*makeflowExporter) Name() string { return "makeflow" }

func (*makeflowExporter) Render(w *workflow.Workflow, opts Options) (string, error) {
	jobs, err := jobList(w, false, opts.stat())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, j := range jobs {
		fmt.Fprintf(&b, "%s : %s\n", strings.Join(j.Outputs, " "), strings.Join(j.Inputs, " "))
		if j.Body != "" {
			for _, line := range strings.Split(strings.TrimRight(j.Body, "\n"), "\n") {
				fmt.Fprintf(&b, "\t%s\n", line)
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
