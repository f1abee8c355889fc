package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajmazurie/spate/internal/echo"
	"github.com/ajmazurie/spate/internal/outdated"
)

func newEchoCmd() *cobra.Command {
	var file string
	var decorated, colorized, outdatedOnly bool

	cmd := &cobra.Command{
		Use:   "echo",
		Short: "List a workflow's jobs, inputs, outputs, and outdatedness status",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkflow(file)
			if err != nil {
				return err
			}

			start := time.Now()
			outdatedSet, err := outdated.Analyze(w, outdated.OSStat)
			if err != nil {
				return err
			}
			notifyAnalysis(cmd.Context(), w.Name(), start, len(outdatedSet), w.NumberOfJobs())

			var filter map[string]bool
			if outdatedOnly {
				filter = outdatedSet
			}
			ids, err := w.ListJobs(filter)
			if err != nil {
				return err
			}

			jobs := make([]echo.Job, 0, len(ids))
			for _, id := range ids {
				j, err := w.GetJob(id)
				if err != nil {
					return err
				}
				jobs = append(jobs, echo.Job{
					ID:       id,
					Inputs:   j.Inputs,
					Outputs:  j.Outputs,
					Outdated: outdatedSet[id],
				})
			}

			text, err := echo.Render(jobs, echo.Options{
				Decorated: decorated,
				Colorized: colorized,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "workflow document path (required)")
	cmd.Flags().BoolVar(&decorated, "decorated", true, "decorate job identifiers with outdated/up-to-date markers")
	cmd.Flags().BoolVar(&colorized, "colorized", false, "colorize decorated markers (requires --decorated)")
	cmd.Flags().BoolVar(&outdatedOnly, "outdated-only", false, "list only outdated jobs and their descendants")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
