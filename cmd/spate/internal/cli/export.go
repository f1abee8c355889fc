package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajmazurie/spate/internal/export"
)

var exportTargets = []string{"shell", "makefile", "makeflow", "drake", "slurm", "torque"}

func newExportCmd() *cobra.Command {
	parent := &cobra.Command{
		Use:   "export",
		Short: "Render a workflow to one of the supported external execution formats",
	}
	for _, target := range exportTargets {
		parent.AddCommand(newExportTargetCmd(target))
	}
	return parent
}

func newExportTargetCmd(target string) *cobra.Command {
	var file, out, shell string
	var outdatedOnly bool

	cmd := &cobra.Command{
		Use:   target,
		Short: fmt.Sprintf("Render the workflow as a %s script", target),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkflow(file)
			if err != nil {
				return err
			}

			registry := export.NewRegistry()
			exporter, err := registry.Exporter(target)
			if err != nil {
				return err
			}

			opts := export.Options{
				OutdatedOnly: cfg.OutdatedOnlyDefault,
				Shell:        cfg.DefaultShell,
			}
			if cmd.Flags().Changed("outdated-only") {
				opts.OutdatedOnly = outdatedOnly
			}
			if shell != "" {
				opts.Shell = shell
			}

			start := time.Now()
			text, err := exporter.Render(w, opts)
			if err != nil {
				return err
			}
			notifyExport(cmd.Context(), target, start, len(text))

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			return os.WriteFile(out, []byte(text), 0o644)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "workflow document path (required)")
	cmd.Flags().StringVar(&out, "out", "", "output file for the rendered script (default: stdout)")
	cmd.Flags().StringVar(&shell, "shell", "", "shebang/submission shell override")
	cmd.Flags().BoolVar(&outdatedOnly, "outdated-only", true, "restrict to outdated jobs and their descendants (ignored by makefile/makeflow/drake, which let the downstream tool handle it)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
