package export

import (
	"fmt"
	"strings"

	"github.com/ajmazurie/spate/internal/workflow"
)

// slurmExporter renders a driver shell script that writes one sbatch
// script per job and submits them in topological order, capturing each
// submission's numeric job ID in a shell variable so later submissions can
// reference it in "--dependency=afterok:<jobid>" (§6).
type slurmExporter struct{}

func (*slurmExporter) Name() string { return "slurm" }

func varName(id string) string {
	return "jid_" + strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, id)
}

func (*slurmExporter) Render(w *workflow.Workflow, opts Options) (string, error) {
	jobs, err := jobList(w, opts.OutdatedOnly, opts.stat())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#!%s\nset -e\n\n", opts.shell())

	for _, j := range jobs {
		scriptFile := j.ID + ".sbatch.sh"
		fmt.Fprintf(&b, "cat > %s <<'SPATE_EOF'\n#!/bin/sh\n", scriptFile)
		if j.Body != "" {
			b.WriteString(j.Body)
			if !strings.HasSuffix(j.Body, "\n") {
				b.WriteByte('\n')
			}
		}
		fmt.Fprintf(&b, "SPATE_EOF\n")

		deps := dependencyJobs(w, j.ID)
		depArg := ""
		if len(deps) > 0 {
			refs := make([]string, len(deps))
			for i, d := range deps {
				refs[i] = "afterok:$" + varName(d)
			}
			depArg = " --dependency=" + strings.Join(refs, ",")
		}
		fmt.Fprintf(&b, "%s=$(sbatch --parsable%s %s)\n\n", varName(j.ID), depArg, scriptFile)
	}
	return b.String(), nil
}
