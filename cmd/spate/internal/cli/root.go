// Package cli assembles the spate command tree: a small Cobra root command
// plus one subcommand per consumed interface from spec §6 (load is
// implicit in every subcommand's --file flag; save, echo, draw, and
// export are explicit subcommands), matching the pack's cobra-based CLIs
// (e.g. jsturma-joblet's internal/rnx: a root command built in init(),
// subcommands constructed by newXCmd() functions) rather than the
// teacher's own bare net/http server entrypoint.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajmazurie/spate/internal/config"
	"github.com/ajmazurie/spate/internal/logging"
	"github.com/ajmazurie/spate/internal/runid"
	"github.com/ajmazurie/spate/internal/telemetry"
)

var (
	logLevel      string
	logPretty     bool
	enableMetrics bool

	cfg               *config.Config
	logger            *logging.Logger
	runID             string
	telemetryProvider *telemetry.Provider
	observer          telemetry.Observer
)

var rootCmd = &cobra.Command{
	Use:   "spate",
	Short: "Compose file-based data-processing jobs into a workflow and export it to an execution environment",
	Long: "spate loads a workflow document (a bipartite DAG of jobs and paths), " +
		"computes which jobs are outdated with respect to the filesystem, and " +
		"renders the result to one of several external execution environments: " +
		"a plain shell script, a Makefile, Makeflow, Drake, a SLURM sbatch driver, " +
		"or a TORQUE job array. spate never executes a job itself.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Default()
		if err := cfg.Validate(); err != nil {
			return err
		}

		runID = runid.New()
		logger = logging.New(logging.Config{Level: logLevel, Pretty: logPretty}).WithRunID(runID)

		if enableMetrics {
			provider, err := telemetry.NewProvider(cmd.Context(), telemetry.DefaultConfig())
			if err != nil {
				return fmt.Errorf("initializing telemetry: %w", err)
			}
			telemetryProvider = provider
			observer = telemetry.NewTelemetryObserver(provider)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if telemetryProvider != nil {
			return telemetryProvider.Shutdown(cmd.Context())
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "human-readable log output instead of JSON")
	rootCmd.PersistentFlags().BoolVar(&enableMetrics, "metrics", false, "enable OpenTelemetry/Prometheus instrumentation")

	rootCmd.AddCommand(newEchoCmd())
	rootCmd.AddCommand(newDrawCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSaveCmd())
}
