package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/etlwatch/pkg/backend"
	"github.com/ccollicutt/etlwatch/pkg/config"
	"github.com/ccollicutt/etlwatch/pkg/elapsed"
	"github.com/ccollicutt/etlwatch/pkg/joblog"
	"github.com/ccollicutt/etlwatch/pkg/monitor"
	"github.com/ccollicutt/etlwatch/pkg/output"
	"github.com/ccollicutt/etlwatch/pkg/pagination"
)

// HistoryOptions holds command-line options for the history command.
type HistoryOptions struct {
	App      string
	Page     int
	Limit    int
	Output   string
	Verbose  bool
	Quiet    bool
	NoRecord bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(g *GlobalOptions) *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show ETL job history with run durations",
		Long: `Fetch one page of ETL job history from the backend and show each job
with its start, finish and elapsed time. Jobs that are still running count
up to now. Timestamps the backend sent in an unreadable form are shown as-is
and flagged with (!).

A summary line is added to the local job log after every check.

Exit codes:
  0 - No failed jobs on the page
  1 - At least one failed job
  2 - Configuration or runtime error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.App, "app", "", "Only show jobs for this app id")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Jobs per page (default from config)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include run type and event counts")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no table")
	cmd.Flags().BoolVar(&opts.NoRecord, "no-record", false, "Do not add this check to the job log")

	return cmd
}

func runHistory(cmd *cobra.Command, g *GlobalOptions, opts *HistoryOptions) error {
	ctx := commandContext(cmd.Context())
	logger := g.Logger()

	formatter, err := output.New(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	cfg, err := g.LoadConfig(ctx)
	if err != nil {
		return err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = cfg.PageSize
	}
	state := pagination.New(opts.Page, limit)

	client := newBackendClient(cfg)
	started := time.Now()
	page, err := client.JobHistory(ctx, backend.HistoryQuery{
		AppID: opts.App,
		Page:  state.Page,
		Limit: state.Limit,
	})
	if err != nil {
		return err
	}
	state.Sync(page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.TotalRecords)
	logger.Debug("fetched job history",
		zap.Int("jobs", len(page.Data)),
		zap.Int("page", state.Page),
		zap.Int("total_pages", state.TotalPages),
		zap.Duration("took", time.Since(started)))

	now := time.Now()
	rows := monitor.Build(page.Data, now, newNormalizer(cfg))
	report := output.NewReport(rows, page.Pagination, cfg.Backend.URL, now)

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if opts.Output == "text" && !opts.Quiet && state.HasNext() {
		fmt.Fprintf(cmd.OutOrStdout(), "Next page: --page %d\n", state.Next())
	}

	if !opts.NoRecord {
		recordCheck(cmd, g, cfg, report, time.Since(started))
	}

	if report.HasFailures() {
		ExitCode = 1
	}

	return nil
}

// recordCheck adds a summary of this check to the job log. Failures are
// logged and never fail the command.
func recordCheck(cmd *cobra.Command, g *GlobalOptions, cfg *config.Config, report *output.Report, took time.Duration) {
	logger := g.Logger()

	jobs, store, err := openJobLog(cfg)
	if err != nil {
		logger.Warn("job log unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	status := "success"
	if report.HasFailures() {
		status = "failed"
	}

	entry, err := jobs.Record(commandContext(cmd.Context()), joblog.Entry{
		Status:   status,
		Rows:     int64(report.Pagination.TotalRecords),
		Time:     report.Metadata.GeneratedAt.Format(monitor.DisplayLayout),
		Duration: elapsed.FormatSeconds(int64(took / time.Second)),
	})
	if err != nil {
		logger.Warn("recording job log entry failed", zap.Error(err))
		return
	}
	logger.Debug("recorded job log entry", zap.String("id", entry.ID))
}
