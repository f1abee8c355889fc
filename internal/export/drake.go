package export

import (
	"fmt"
	"strings"

	"github.com/ajmazurie/spate/internal/workflow"
)

// drakeExporter renders Drake's step syntax: "out1, out2 <- in1, in2
// [shell]" followed by an indented body, with the [shell] protocol tag
// defaulted (§6). Drake resolves dependencies itself, so outdated_only is
// ignored.
type drakeExporter struct{}

func (*drakeExporter) Name() string { return "drake" }

func (*drakeExporter) Render(w *workflow.Workflow, opts Options) (string, error) {
	jobs, err := jobList(w, false, opts.stat())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, j := range jobs {
		outs := strings.Join(j.Outputs, ", ")
		ins := strings.Join(j.Inputs, ", ")
		switch {
		case outs != "" && ins != "":
			fmt.Fprintf(&b, "%s <- %s [shell]\n", outs, ins)
		case outs != "":
			fmt.Fprintf(&b, "%s <- [shell]\n", outs)
		default:
			fmt.Fprintf(&b, "%s <- %s [shell]\n", j.ID, ins)
		}
		if j.Body != "" {
			for _, line := range strings.Split(strings.TrimRight(j.Body, "\n"), "\n") {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
