package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/railbook/internal/infra/httpapi"
	"github.com/aalvaropc/railbook/internal/infra/logger"
	"github.com/aalvaropc/railbook/internal/infra/metrics"
	"github.com/aalvaropc/railbook/internal/platform/ratelimiter"
)

func serveCmd(g *globalOpts) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reservation HTTP API and /metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.L()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			rec, err := metrics.NewRecorder(reg)
			if err != nil {
				return err
			}

			// The data directory stays locked while the server runs.
			sys, err := openSystem(g.root, withLogger(log), withObservers(rec, rec, rec))
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()
			rec.SeedTrains(sys.catalog.List())

			if addr == "" {
				addr = sys.cfg.HTTP.Addr
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			api := httpapi.New(httpapi.Deps{
				Accounts: sys.accounts,
				Trains:   sys.trains,
				Bookings: sys.bookings,
			},
				httpapi.WithLogger(log),
				httpapi.WithLimiter(ratelimiter.New(sys.cfg.HTTP.RateRPS, sys.cfg.HTTP.RateBurst, 10*time.Minute)),
				httpapi.WithMetrics(reg),
				httpapi.WithRequestObserver(rec),
			)

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("serve.start",
				"addr", ln.Addr().String(),
				"trains_file", sys.trainFile.Path(),
				"users_file", sys.userFile.Path(),
				"lock_file", sys.lock.Path(),
				"log_file", logger.Path(),
			)
			cmd.Printf("Listening on %s (log: %s)\n", ln.Addr(), logger.Path())
			return httpapi.Serve(ctx, ln, api.Handler(), log)
		},
	}

	c.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to http.addr in railbook.yaml)")
	return c
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
