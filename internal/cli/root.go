// Package cli provides the command-line interface for etlwatch.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/etlwatch/internal/cli/commands"
	"github.com/ccollicutt/etlwatch/pkg/config"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	g := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "etlwatch",
		Short: "Monitor ETL jobs and their run times",
		Long: `etlwatch shows the ETL job history kept by the analytics backend with
readable start, finish and elapsed times, even when the backend sends
timestamps in mixed or day-first formats.

It can also trigger, stop and clean up runs, manage apps and their analytics
config, show the KPI dashboard the backend computes, search raw events, and
serve the monitor view as JSON for dashboards.

The backend URL comes from --backend-url, the ` + config.EnvBackendURL + `
environment variable or the config file given with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.ConfigPath, "config", "c", "", "Path to the YAML config file")
	flags.StringVar(&g.BackendURL, "backend-url", "", "Analytics backend base URL")
	flags.StringVar(&g.Timezone, "timezone", "", "IANA timezone for timestamps without a zone (default Local)")
	flags.StringVar(&g.LogLevel, "log-level", "warn", "Diagnostic log level (debug|info|warn|error)")
	flags.StringVar(&g.LogFormat, "log-format", "console", "Diagnostic log format (console|json)")

	// Add subcommands
	rootCmd.AddCommand(commands.NewHistoryCommand(g))
	rootCmd.AddCommand(commands.NewEventsCommand(g))
	rootCmd.AddCommand(commands.NewAppsCommand(g))
	rootCmd.AddCommand(commands.NewDashboardCommand(g))
	rootCmd.AddCommand(commands.NewAnalyticsCommand(g))
	rootCmd.AddCommand(commands.NewRunCommand(g))
	rootCmd.AddCommand(commands.NewStopCommand(g))
	rootCmd.AddCommand(commands.NewDeleteCommand(g))
	rootCmd.AddCommand(commands.NewPurgeCommand(g))
	rootCmd.AddCommand(commands.NewJobLogCommand(g))
	rootCmd.AddCommand(commands.NewParseCommand(g))
	rootCmd.AddCommand(commands.NewElapsedCommand(g))
	rootCmd.AddCommand(commands.NewServeCommand(g))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
