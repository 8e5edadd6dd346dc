package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manav-1/jobfill/internal/ai"
	"github.com/manav-1/jobfill/internal/server"
)

func (c *CLI) newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the companion API used by the browser extension",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			// Drafting is optional; the server runs without a provider and
			// reports 503 on draft endpoints.
			var provider ai.Provider
			if p, err := c.provider(cmd.Context()); err == nil {
				provider = p
			} else {
				c.log.Warn("draft endpoints disabled", zap.Error(err))
			}

			srv, err := server.New(server.Deps{
				Store:    store,
				Provider: provider,
				Log:      c.log,
				Token:    c.cfg.Server.Token,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
