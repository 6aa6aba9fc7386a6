package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/moodmagic/moodmagic/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the moodboard API over HTTP",
		Long: `Serve generation, font stylesheet and PDF export endpoints over HTTP.

With --offline the server answers /api/generate-moodboard itself with fixed
fallback content, so the export path can be exercised without a backend.
Set cache.redis_addr (or MOODMAGIC_REDIS_ADDR) to share the asset cache
between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if cmd.Flags().Changed("offline") {
				c.Config.Server.Offline = offline
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&offline, "offline", false, "serve fixed fallback boards instead of calling the backend")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	store, err := c.newCache(ctx)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	cfg := c.Config.Server
	srv := server.New(c.pipelineConfig(store),
		server.WithOffline(cfg.Offline),
		server.WithLogger(c.Logger))

	printInfo("Listening on %s", StyleLink.Render(cfg.Addr))
	if cfg.Offline {
		printDetail("Offline mode: generation returns fixed fallback content")
	}

	err = srv.Run(ctx, cfg.Addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
