package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/etlwatch/pkg/backend"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <history-id>",
		Short: "Delete one job from the history",
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

			err = newBackendClient(cfg).DeleteHistory(ctx, id)
			if errors.Is(err, backend.ErrNotFound) {
				return fmt.Errorf("job #%d not found", id)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted job #%d\n", id)
			return nil
		},
	}
}

// NewPurgeCommand creates the purge command.
func NewPurgeCommand(g *GlobalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete the whole job history",
		Long: `Delete every job from the backend history. This cannot be undone,
so --yes is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to purge the job history without --yes")
			}

			ctx := commandContext(cmd.Context())
			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if err := newBackendClient(cfg).PurgeHistory(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Job history cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting the whole history")

	return cmd
}
