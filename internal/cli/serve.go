package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stationflow/internal/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the arrange and plan API over HTTP",
		Long: `Serve runs the HTTP API:

  GET  /healthz
  POST /v1/arrange
  POST /v1/plan
  POST /v1/segments
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			if addr == "" {
				addr = c.Config.Server.Addr
			}
			srv := server.New(runner, logger, server.Options{
				Layout:  c.Config.LayoutOptions(),
				Start:   c.Config.Start(),
				Metrics: c.Metrics.Handler(),
			})
			printInfo(cmd.OutOrStdout(), "Listening on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
