package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/rohmanhakim/wikicurious/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	listenAddr   string
	inboundRate  float64
	inboundBurst int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Wikipedia gateway HTTP server",
	Long: `serve exposes GET /api/wikipedia?action=search|summary|related over the
shared upstream rate limit and retry policy, plus /healthz and /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, false, func(ctx context.Context, a *app) error {
			srv := server.New(server.Options{
				Gateway:      a.gateway,
				Logger:       a.logger,
				InboundRate:  a.cfg.InboundRate(),
				InboundBurst: a.cfg.InboundBurst(),
			})
			return serve(ctx, srv, a.cfg.ListenAddr(), a.logger)
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default :8080)")
	serveCmd.Flags().Float64Var(&inboundRate, "inbound-rate", 0, "per-client requests per second (0 disables the inbound limit)")
	serveCmd.Flags().IntVar(&inboundBurst, "inbound-burst", 0, "per-client burst for the inbound limit")
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *server.Server, address string, logger *slog.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start(address)
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("server exited properly")
	return nil
}
