package cli

import (
	"github.com/spf13/cobra"

	"github.com/ajmazurie/spate/internal/serialize"
)

func newSaveCmd() *cobra.Command {
	var file, out, engine string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Reload a workflow document and write it back out",
		Long: "save round-trips a workflow document: load it, optionally switch its " +
			"default template engine, and write it to --out (or back over --file). " +
			"A .gz suffix on the destination path transparently gzips the document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkflow(file)
			if err != nil {
				return err
			}
			if engine != "" {
				if err := w.Engines().SetActive(engine); err != nil {
					return err
				}
			}

			dest := out
			if dest == "" {
				dest = file
			}
			if err := serialize.Save(w, dest); err != nil {
				return err
			}
			logger.WithWorkflow(w.Name()).Infof("saved workflow to %s", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "workflow document path to load (required)")
	cmd.Flags().StringVar(&out, "out", "", "destination path (default: overwrite --file); a .gz suffix gzips the document")
	cmd.Flags().StringVar(&engine, "engine", "", "override the workflow's default template engine before saving")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
