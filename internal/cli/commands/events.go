package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/etlwatch/pkg/backend"
	"github.com/ccollicutt/etlwatch/pkg/monitor"
	"github.com/ccollicutt/etlwatch/pkg/timestamp"
)

// EventsOptions holds command-line options for the events command.
type EventsOptions struct {
	App     string
	From    string
	To      string
	Event   string
	Keyword string
	Page    int
	Limit   int
	Output  string
}

// NewEventsCommand creates the events command.
func NewEventsCommand(g *GlobalOptions) *cobra.Command {
	opts := &EventsOptions{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Search raw analytics events for an app",
		Long: `Search the raw events collected for one app.

Dates are inclusive and use YYYY-MM-DD. The keyword is matched against the
whole event payload.

Example:
  etlwatch events --app 3 --from 2024-03-01 --to 2024-03-05 --event level_start`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.App, "app", "", "App id to search (required)")
	cmd.Flags().StringVar(&opts.From, "from", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "Last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Event, "event", "", "Only this event name")
	cmd.Flags().StringVar(&opts.Keyword, "keyword", "", "Match text anywhere in the event payload")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Events per page")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	_ = cmd.MarkFlagRequired("app")

	return cmd
}

func runEvents(cmd *cobra.Command, g *GlobalOptions, opts *EventsOptions) error {
	ctx := commandContext(cmd.Context())

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
	if err := validateDates(opts.From, opts.To); err != nil {
		return err
	}

	cfg, err := g.LoadConfig(ctx)
	if err != nil {
		return err
	}

	page, err := newBackendClient(cfg).SearchEvents(ctx, backend.EventQuery{
		AppID:     opts.App,
		Page:      opts.Page,
		Limit:     opts.Limit,
		StartDate: opts.From,
		EndDate:   opts.To,
		EventName: opts.Event,
		Keyword:   opts.Keyword,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Output == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(page)
	}
	return writeEventsTable(out, page, newNormalizer(cfg))
}

func writeEventsTable(w io.Writer, page *backend.EventPage, n *timestamp.Normalizer) error {
	if len(page.Data) == 0 {
		fmt.Fprintln(w, "No events found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tEVENT\tKEY INFO\t")
	for _, e := range page.Data {
		created := n.Normalize(e.CreatedAt).Display(monitor.DisplayLayout)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", e.ID, created, e.EventName, e.KeyInfo)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := page.Pagination
	fmt.Fprintf(w, "\nPage %d of %d (%d events)\n", p.CurrentPage, p.TotalPages, p.TotalRecords)
	return nil
}
