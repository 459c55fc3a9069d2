package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/etlwatch/pkg/backend"
)

// NewAnalyticsCommand creates the analytics command, which shows and sets
// how the backend reads an app's events.
func NewAnalyticsCommand(g *GlobalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "analytics <app-id>",
		Short: "Show an app's level events and booster catalog",
		Long: `Show the analytics config of an app: the event names that mark a level
start, win and fail, and the boosters with their coin cost.

The yaml output can be edited and saved back with "analytics set".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())

			appID, err := parseID(args[0], "app id")
			if err != nil {
				return err
			}
			switch outputFormat {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q (use text, json or yaml)", outputFormat)
			}

			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}
			ac, err := newBackendClient(cfg).AnalyticsConfig(ctx, appID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				return writeIndentedJSON(out, ac)
			case "yaml":
				encoder := yaml.NewEncoder(out)
				encoder.SetIndent(2)
				if err := encoder.Encode(ac); err != nil {
					return fmt.Errorf("encoding yaml: %w", err)
				}
				return encoder.Close()
			}
			return writeAnalyticsConfig(out, ac)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text|json|yaml)")
	cmd.AddCommand(newAnalyticsSetCommand(g))

	return cmd
}

func newAnalyticsSetCommand(g *GlobalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set <app-id>",
		Short: "Replace an app's analytics config from a YAML or JSON file",
		Long: `Replace the level events and the whole booster catalog of an app.

Example file:
  events:
    level_start: level_start
    level_win: level_complete
    level_fail: level_fail
  boosters:
    - event_name: use_hammer
      display_name: Hammer
      coin_cost: 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())

			appID, err := parseID(args[0], "app id")
			if err != nil {
				return err
			}
			ac, err := readAnalyticsConfig(file)
			if err != nil {
				return err
			}

			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if err := newBackendClient(cfg).SaveAnalyticsConfig(ctx, appID, *ac); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved analytics config for app #%d (%d boosters)\n", appID, len(ac.Boosters))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file with the config (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// readAnalyticsConfig loads a config file. JSON is read as YAML.
func readAnalyticsConfig(path string) (*backend.AnalyticsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading analytics config: %w", err)
	}

	var ac backend.AnalyticsConfig
	if err := yaml.Unmarshal(data, &ac); err != nil {
		return nil, fmt.Errorf("parsing analytics config %s: %w", path, err)
	}

	for i, b := range ac.Boosters {
		if b.EventName == "" {
			return nil, fmt.Errorf("booster %d: event_name is required", i+1)
		}
		if b.CoinCost < 0 {
			return nil, fmt.Errorf("booster %s: coin_cost must not be negative", b.EventName)
		}
	}
	return &ac, nil
}

func writeAnalyticsConfig(w io.Writer, ac *backend.AnalyticsConfig) error {
	fmt.Fprintln(w, "Level events:")
	fmt.Fprintf(w, "  Start: %s\n", orDash(ac.Events.LevelStart))
	fmt.Fprintf(w, "  Win:   %s\n", orDash(ac.Events.LevelWin))
	fmt.Fprintf(w, "  Fail:  %s\n", orDash(ac.Events.LevelFail))

	if len(ac.Boosters) == 0 {
		fmt.Fprintln(w, "\nNo boosters configured")
		return nil
	}

	fmt.Fprintln(w, "\nBoosters:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tNAME\tCOINS\t")
	for _, b := range ac.Boosters {
		fmt.Fprintf(tw, "%s\t%s\t%d\t\n", b.EventName, b.DisplayName, b.CoinCost)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
