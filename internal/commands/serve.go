package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/books/internal/api"
	"github.com/cleared-dev/books/internal/recon"
	"github.com/cleared-dev/books/internal/source"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports and reconciliation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecon(a, cmd, func(svc *recon.Service) error {
				if addr == "" {
					addr = a.cfg.Server.Addr
				}
				srv := &http.Server{
					Addr: addr,
					Handler: api.NewRouter(api.Dependencies{
						Logger:  a.log,
						Source:  source.NewDir(a.dir),
						Recon:   svc,
						Options: a.reportOptions(),
					}),
					ReadHeaderTimeout: 10 * time.Second,
				}
				return serve(cmd.Context(), srv, a.log)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
