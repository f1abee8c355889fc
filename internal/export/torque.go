package export

import (
	"fmt"
	"strings"

	"github.com/ajmazurie/spate/internal/workflow"
)

// torqueExporter renders a single TORQUE/PBS job-array submission script:
// every job becomes one array index, dispatched by $PBS_ARRAY_INDEX inside a
// case statement. Known limitation (§9 open question): array jobs carry
// no dependency wiring, so job order within the array is topological but
// nothing stops the scheduler from running them concurrently.
type torqueExporter struct{}

func (*torqueExporter) Name() string { return "torque" }

func (*torqueExporter) Render(w *workflow.Workflow, opts Options) (string, error) {
	jobs, err := jobList(w, opts.OutdatedOnly, opts.stat())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#!%s\n", opts.shell())
	fmt.Fprintf(&b, "#PBS -J 0-%d\n", max(len(jobs)-1, 0))
	b.WriteString("# NOTE: TORQUE job arrays do not express inter-job dependencies;\n")
	b.WriteString("# jobs below are ordered topologically but the scheduler may run them concurrently.\n\n")
	b.WriteString("case $PBS_ARRAY_INDEX in\n")
	for i, j := range jobs {
		fmt.Fprintf(&b, "%d) # %s\n", i, j.ID)
		if j.Body != "" {
			for _, line := range strings.Split(strings.TrimRight(j.Body, "\n"), "\n") {
				fmt.Fprintf(&b, "   %s\n", line)
			}
		}
		b.WriteString("   ;;\n")
	}
	b.WriteString("esac\n")
	return b.String(), nil
}
