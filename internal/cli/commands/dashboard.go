package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/etlwatch/pkg/backend"
)

// DashboardOptions holds command-line options for the dashboard commands.
type DashboardOptions struct {
	From   string
	To     string
	Output string
}

func (o *DashboardOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.From, "from", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&o.To, "to", "", "Last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "text", "Output format (text|json)")
}

func (o *DashboardOptions) validate() error {
	if o.Output != "text" && o.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", o.Output)
	}
	return validateDates(o.From, o.To)
}

func (o *DashboardOptions) dateRange() backend.DateRange {
	return backend.DateRange{StartDate: o.From, EndDate: o.To}
}

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(g *GlobalOptions) *cobra.Command {
	opts := &DashboardOptions{}

	cmd := &cobra.Command{
		Use:   "dashboard <app-id>",
		Short: "Show the KPI overview the backend computes for an app",
		Long: `Show the headline numbers the backend aggregates from an app's events:
coin revenue from boosters, active users, total events, the top events and
the boosters with the most coins spent.

Dates are inclusive and use YYYY-MM-DD. Use "dashboard level" to drill into
one level.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())

			appID, err := parseID(args[0], "app id")
			if err != nil {
				return err
			}
			if err := opts.validate(); err != nil {
				return err
			}
			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}

			d, err := newBackendClient(cfg).Dashboard(ctx, appID, opts.dateRange())
			if err != nil {
				return err
			}

			if opts.Output == "json" {
				return writeIndentedJSON(cmd.OutOrStdout(), d)
			}
			return writeDashboard(cmd.OutOrStdout(), d)
		},
	}

	opts.register(cmd)
	cmd.AddCommand(newLevelCommand(g))

	return cmd
}

func newLevelCommand(g *GlobalOptions) *cobra.Command {
	opts := &DashboardOptions{}

	cmd := &cobra.Command{
		Use:   "level <app-id> <level-id>",
		Short: "Show plays, win rate, funnel and recent events for one level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())

			appID, err := parseID(args[0], "app id")
			if err != nil {
				return err
			}
			if err := opts.validate(); err != nil {
				return err
			}
			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}

			d, err := newBackendClient(cfg).LevelDetail(ctx, appID, backend.LevelQuery{
				LevelID:   args[1],
				DateRange: opts.dateRange(),
			})
			if err != nil {
				return err
			}

			if opts.Output == "json" {
				return writeIndentedJSON(cmd.OutOrStdout(), d)
			}
			return writeLevelDetail(cmd.OutOrStdout(), d)
		},
	}

	opts.register(cmd)

	return cmd
}

func writeDashboard(w io.Writer, d *backend.Dashboard) error {
	fmt.Fprintln(w, "=== Dashboard ===")
	fmt.Fprintf(w, "Revenue:      %d coins\n", d.Cards.Revenue)
	fmt.Fprintf(w, "Active users: %d\n", d.Cards.ActiveUsers)
	fmt.Fprintf(w, "Events:       %d\n", d.Cards.TotalEvents)

	if len(d.TopEvents) > 0 {
		fmt.Fprintln(w, "\nTop events:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "EVENT\tCOUNT\t")
		for _, e := range d.TopEvents {
			fmt.Fprintf(tw, "%s\t%d\t\n", e.Name, e.Value)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(d.BoosterUsage) > 0 {
		fmt.Fprintln(w, "\nBoosters:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "BOOSTER\tUSED\tCOINS\t")
		for _, b := range d.BoosterUsage {
			fmt.Fprintf(tw, "%s\t%d\t%d\t\n", b.Name, b.UsageCount, b.TotalSpent)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func writeLevelDetail(w io.Writer, d *backend.LevelDetail) error {
	m := d.Metrics
	winRate := "-"
	if m.WinRate.Valid {
		winRate = m.WinRate.String() + "%"
	}

	fmt.Fprintf(w, "=== Level %s ===\n", d.LevelID)
	fmt.Fprintf(w, "Plays:    %d\n", m.TotalPlays)
	fmt.Fprintf(w, "Win rate: %s\n", winRate)
	fmt.Fprintf(w, "ARPU:     %s\n", m.ARPU)
	fmt.Fprintf(w, "Top item: %s\n", m.TopItem)

	if len(d.Funnel) > 0 {
		fmt.Fprintln(w, "\nFunnel:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "EVENT TYPE\tCOUNT\tCOINS\t")
		for _, f := range d.Funnel {
			fmt.Fprintf(tw, "%s\t%d\t%s\t\n", f.EventType, f.Count, f.Revenue)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(d.Logs) > 0 {
		fmt.Fprintln(w, "\nRecent events:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tUSER\tEVENT\tITEM\tCOINS\t")
		for _, e := range d.Logs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", e.Time, e.UserID, e.EventName, e.ItemName, e.CoinSpent)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func writeIndentedJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
