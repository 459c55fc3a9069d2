package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/etlwatch/pkg/elapsed"
	"github.com/ccollicutt/etlwatch/pkg/timestamp"
)

// NewElapsedCommand creates the elapsed command.
func NewElapsedCommand(g *GlobalOptions) *cobra.Command {
	var now string

	cmd := &cobra.Command{
		Use:   "elapsed <start> [end]",
		Short: "Format the time between two raw timestamps",
		Long: `Print the elapsed time between two raw timestamps as "1h 2m 30s".

Without an end the job is treated as still running and the duration counts
up to now (or to --now). An end before the start prints "0s". When either
value cannot be read "-" is printed.

Example:
  etlwatch elapsed "05/03/2024 09:00:00" "05/03/2024 10:02:30"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := g.Location(commandContext(cmd.Context()))
			if err != nil {
				return err
			}
			n := timestamp.New(timestamp.WithLocation(loc))

			clock := elapsed.Clock(elapsed.SystemClock{})
			if now != "" {
				at := n.Normalize(now)
				if !at.IsValid() {
					return fmt.Errorf("invalid --now value %q", now)
				}
				clock = elapsed.FixedClock(at.Time)
			}

			end := ""
			if len(args) == 2 {
				end = args[1]
			}

			f := elapsed.New(elapsed.WithClock(clock), elapsed.WithNormalizer(n))
			fmt.Fprintln(cmd.OutOrStdout(), f.Format(args[0], end))
			return nil
		},
	}

	cmd.Flags().StringVar(&now, "now", "", "Measure running jobs up to this time instead of the current time")

	return cmd
}
