package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/etlwatch/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(g *GlobalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the monitor view as JSON over HTTP",
		Long: `Run a read-only HTTP service for dashboards that cannot compute
durations themselves.

Endpoints:
  GET /healthz                        - liveness
  GET /api/monitor?app_id&page&limit  - job history with formatted durations
  GET /api/timestamps/normalize?raw=  - how one raw timestamp is read
  GET /api/joblog                     - the local job log

Stops cleanly on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			jobs, store, err := openJobLog(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			logger := g.Logger()
			logger.Info("starting etlwatch server",
				zap.String("backend", cfg.Backend.URL),
				zap.String("timezone", cfg.Location().String()))

			srv := server.New(newBackendClient(cfg), jobs, logger,
				server.WithNormalizer(newNormalizer(cfg)),
				server.WithPageSize(cfg.PageSize),
			)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8090)")

	return cmd
}
