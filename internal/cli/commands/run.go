package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/etlwatch/pkg/backend"
	"github.com/ccollicutt/etlwatch/pkg/config"
	"github.com/ccollicutt/etlwatch/pkg/joblog"
	"github.com/ccollicutt/etlwatch/pkg/monitor"
)

// RunOptions holds command-line options for the run command.
type RunOptions struct {
	Type       string
	RetryJobID int64
}

// NewRunCommand creates the run command.
func NewRunCommand(g *GlobalOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <app-id>",
		Short: "Trigger an ETL run on the backend",
		Long: `Ask the backend to start an ETL run for an app. The run happens on the
backend; use 'etlwatch history' to follow it.

Run types:
  manual - a normal run (default)
  retry  - re-run a failed job, given with --retry-job
  demo   - a dry run that loads sample data

The backend runs one job at a time and refuses a trigger while busy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", backend.RunTypeManual, "Run type (manual|retry|demo)")
	cmd.Flags().Int64Var(&opts.RetryJobID, "retry-job", 0, "History id of the job to retry (with --type retry)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, g *GlobalOptions, opts *RunOptions) error {
	ctx := commandContext(cmd.Context())

	appID, err := parseID(args[0], "app id")
	if err != nil {
		return err
	}

	switch opts.Type {
	case backend.RunTypeManual, backend.RunTypeDemo:
	case backend.RunTypeRetry:
		if opts.RetryJobID <= 0 {
			return errors.New("--retry-job is required with --type retry")
		}
	default:
		return fmt.Errorf("unknown run type %q (use manual, retry or demo)", opts.Type)
	}

	cfg, err := g.LoadConfig(ctx)
	if err != nil {
		return err
	}

	result, err := newBackendClient(cfg).RunETL(ctx, appID, backend.RunRequest{
		RunType:    opts.Type,
		RetryJobID: opts.RetryJobID,
	})
	if errors.Is(err, backend.ErrBusy) {
		recordRun(ctx, g, cfg, "skipped")
		return fmt.Errorf("backend is busy with another job, try again later: %w", err)
	}
	if err != nil {
		return err
	}

	recordRun(ctx, g, cfg, result.Status)
	fmt.Fprintf(cmd.OutOrStdout(), "Run %s for app %d (mode: %s)\n", result.Status, appID, result.Mode)
	return nil
}

// recordRun adds a triggered run to the job log.
func recordRun(ctx context.Context, g *GlobalOptions, cfg *config.Config, status string) {
	jobs, store, err := openJobLog(cfg)
	if err != nil {
		g.Logger().Warn("job log unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	if _, err := jobs.Record(ctx, joblog.Entry{
		Status:   status,
		Time:     time.Now().Format(monitor.DisplayLayout),
		Duration: "-",
	}); err != nil {
		g.Logger().Warn("recording job log entry failed", zap.Error(err))
	}
}

// NewStopCommand creates the stop command.
func NewStopCommand(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <history-id>",
		Short: "Cancel a running ETL job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())

			id, err := parseID(args[0], "history id")
			if err != nil {
				return err
			}
			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if err := newBackendClient(cfg).StopJob(ctx, id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stop signal sent to job #%d\n", id)
			return nil
		},
	}
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive number", what, s)
	}
	return id, nil
}
