package export

import (
	"fmt"
	"strings"

	"github.com/ajmazurie/spate/internal/workflow"
)

// shellExporter renders a plain shell script: job bodies in topological
// order, separated by "# <id>" comments, with a "set -e" prologue so the
// script exits non-zero on the first failing job (§6).
type shellExporter struct{}

func (*shellExporter) Name() string { return "shell" }

func (*shellExporter) Render(w *workflow.Workflow, opts Options) (string, error) {
	jobs, err := jobList(w, opts.OutdatedOnly, opts.stat())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#!%s\nset -e\n\n", opts.shell())
	for _, j := range jobs {
		fmt.Fprintf(&b, "# %s\n", j.ID)
		if j.Body != "" {
			b.WriteString(j.Body)
			if !strings.HasSuffix(j.Body, "\n") {
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
