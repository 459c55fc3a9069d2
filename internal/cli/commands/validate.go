package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/etlwatch/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an etlwatch configuration file without contacting the backend.

Checks:
  - YAML syntax
  - Backend URL (required, http or https)
  - Timezone name
  - Cache backend and path
  - Page size limits`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd.Context())
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Backend:   %s (timeout %s)\n", cfg.Backend.URL, cfg.Backend.Timeout)
	if cfg.Backend.Token != "" {
		fmt.Fprintf(out, "  Token:     set\n")
	}
	fmt.Fprintf(out, "  Timezone:  %s\n", cfg.Location())
	fmt.Fprintf(out, "  Page size: %d\n", cfg.PageSize)
	if cfg.Cache.Backend == config.CacheBackendMemory {
		fmt.Fprintf(out, "  Cache:     memory (%d entries)\n", cfg.Cache.MaxEntries)
	} else {
		fmt.Fprintf(out, "  Cache:     %s at %s (%d entries)\n", cfg.Cache.Backend, cfg.Cache.Path, cfg.Cache.MaxEntries)
	}
	fmt.Fprintf(out, "  Server:    %s\n", cfg.Server.Addr)

	return nil
}
