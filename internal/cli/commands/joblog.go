package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewJobLogCommand creates the joblog command.
func NewJobLogCommand(g *GlobalOptions) *cobra.Command {
	var (
		clearLog     bool
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "joblog",
		Short: "Show or clear the local job log",
		Long: `Show the local job log: one line per history check or triggered run,
newest first. The log is kept in the cache configured under 'cache'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())

			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}
			jobs, store, err := openJobLog(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if clearLog {
				if err := jobs.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "Job log cleared")
				return nil
			}

			entries, err := jobs.Load(ctx)
			if err != nil {
				return err
			}

			switch outputFormat {
			case "json":
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			case "text":
			default:
				return fmt.Errorf("unknown output format %q (use text or json)", outputFormat)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "Job log is empty")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tROWS\tTIME\tDURATION\t")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t\n", e.ID, e.Status, e.Rows, e.Time, e.Duration)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&clearLog, "clear", false, "Remove every entry")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text|json)")

	return cmd
}
