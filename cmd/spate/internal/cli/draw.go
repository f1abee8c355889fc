package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajmazurie/spate/internal/export"
)

func newDrawCmd() *cobra.Command {
	var file, layout, out string

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Pipe a workflow's dependency graph through an external layout program",
		Long: "draw renders the workflow's job-level dependency edges as a plain " +
			"text description and, unless --layout is empty, pipes it over stdin " +
			"to an external graph layout program (default: Graphviz's dot), " +
			"capturing its stdout. spate never lays out or draws a diagram itself; " +
			"it only prepares the description and feeds it to the external tool (spec §1/§6).",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkflow(file)
			if err != nil {
				return err
			}
			text, err := export.Draw(w)
			if err != nil {
				return err
			}

			if layout == "" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}

			fields := strings.Fields(layout)
			runner := exec.CommandContext(cmd.Context(), fields[0], fields[1:]...)
			runner.Stdin = strings.NewReader(text)
			var stdout bytes.Buffer
			runner.Stdout = &stdout
			runner.Stderr = os.Stderr
			if err := runner.Run(); err != nil {
				return fmt.Errorf("running layout program %q: %w", layout, err)
			}

			if out == "" {
				_, err := cmd.OutOrStdout().Write(stdout.Bytes())
				return err
			}
			return os.WriteFile(out, stdout.Bytes(), 0o644)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "workflow document path (required)")
	cmd.Flags().StringVar(&layout, "layout", "dot -Tpng", "external layout command reading the edge-list description on stdin; empty to print the description itself")
	cmd.Flags().StringVar(&out, "out", "", "output file for the rendered diagram (default: stdout)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
