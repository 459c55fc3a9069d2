package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/etlwatch/pkg/timestamp"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Output string
}

// NewParseCommand creates the parse command.
func NewParseCommand(g *GlobalOptions) *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <raw>...",
		Short: "Show how raw timestamps are interpreted",
		Long: `Show how etlwatch reads each raw timestamp: whether it is valid, absent
or unparseable, the instant it stands for and the format that accepted it.

Standard formats (ISO 8601, RFC 3339, RFC 1123 and friends) are tried first.
Slash dates are read day first (DD/MM/YYYY [HH[:MM[:SS]]]), so a value such
as 05/03/2024 is 5 March. When the value would also be a valid month-first
date a warning is printed.

Zoneless values are read in the configured timezone (--timezone).

Example:
  etlwatch parse "2024-03-05T10:00:00Z" "05/03/2024 09:00:00" "31/12/2024"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, g *GlobalOptions, opts *ParseOptions) error {
	loc, err := g.Location(commandContext(cmd.Context()))
	if err != nil {
		return err
	}
	n := timestamp.New(timestamp.WithLocation(loc))

	results := make([]timestamp.Classification, 0, len(args))
	for _, raw := range args {
		results = append(results, n.Classify(raw))
	}

	switch opts.Output {
	case "json":
		return outputParseJSON(cmd.OutOrStdout(), results)
	case "text":
		return outputParseText(cmd.OutOrStdout(), results)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputParseText(w io.Writer, results []timestamp.Classification) error {
	for i, c := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Input:  %q\n", c.Instant.Raw)
		fmt.Fprintf(w, "State:  %s\n", c.Instant.State)

		if !c.Instant.IsValid() {
			continue
		}
		fmt.Fprintf(w, "Time:   %s\n", c.Instant.Time.Format(time.RFC3339))
		fmt.Fprintf(w, "Format: %s\n", c.Format)

		if c.Ambiguous {
			fmt.Fprintf(w, "WARNING: %s\n", timestamp.AmbiguityNote)
		}
	}
	return nil
}

// JSONParseResult is one value in the parse command's JSON output.
type JSONParseResult struct {
	Raw       string `json:"raw"`
	State     string `json:"state"`
	Time      string `json:"time,omitempty"`
	Format    string `json:"format,omitempty"`
	Fallback  bool   `json:"fallback,omitempty"`
	Ambiguous bool   `json:"ambiguous,omitempty"`
}

func outputParseJSON(w io.Writer, results []timestamp.Classification) error {
	out := make([]JSONParseResult, 0, len(results))
	for _, c := range results {
		r := JSONParseResult{
			Raw:       c.Instant.Raw,
			State:     c.Instant.State.String(),
			Time:      c.Instant.RFC3339(),
			Format:    c.Format,
			Fallback:  c.Fallback,
			Ambiguous: c.Ambiguous,
		}
		out = append(out, r)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
