package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stockfake/internal/server"
)

// newServeCmd starts the HTTP server for the browser UI.
func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server for the browser UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}

			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")
			cfg := app.Config.Server
			if host != "" {
				cfg.Host = host
			}
			if port != 0 {
				cfg.Port = port
			}

			srv := server.New(cfg, app.Logger, app.Market, app.Store, app.Executor, app.Clock)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}
	cmd.Flags().String("host", "", "bind address (overrides config)")
	cmd.Flags().Int("port", 0, "listen port (overrides config)")
	return cmd
}
