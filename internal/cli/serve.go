package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shapeboard/internal/server"
)

const shutdownTimeout = 5 * time.Second

// serveCommand runs the browser editor.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		seed    uint64
		noCache bool
		archive bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor in the browser",
		Long: `Serve the editor and its JSON API over HTTP.

All browser tabs edit the same board. The board lives in memory and is gone
when the server stops.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			s, err := c.newSession(ctx, c.Logger, noCache)
			if err != nil {
				return err
			}
			defer s.Close()

			var opts []server.Option
			if archive {
				d, err := newArchive(ctx, s.cfg)
				if err != nil {
					return err
				}
				defer d.Close(context.WithoutCancel(ctx))
				opts = append(opts, server.WithArchive(d))
			}

			if addr == "" {
				addr = s.cfg.Server.Addr
			}
			return serve(ctx, addr, server.New(s.controller(seed), s.exporter, c.Logger, opts...))
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "placement jitter seed (0 = random)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&archive, "archive", false, "enable ?archive=1 on export downloads")

	return cmd
}

// serve listens on addr until ctx is cancelled, then drains open requests.
func serve(ctx context.Context, addr string, h http.Handler) error {
	logger := loggerFromContext(ctx)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	printSuccess("Serving %s", StyleLink.Render("http://"+ln.Addr().String()))
	printDetail("Press Ctrl+C to stop")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "err", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	printInfo("Server stopped")
	return nil
}
