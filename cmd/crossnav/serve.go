package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/spf13/cobra"

	"github.com/crossnav/crossnav/internal/config"
	"github.com/crossnav/crossnav/internal/dataflow"
	"github.com/crossnav/crossnav/internal/health"
	httpapp "github.com/crossnav/crossnav/internal/http"
	"github.com/crossnav/crossnav/internal/logging"
	"github.com/crossnav/crossnav/internal/metrics"
	"github.com/crossnav/crossnav/internal/navctx"
	"github.com/crossnav/crossnav/internal/registry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the federation API and the background health monitor.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	if _, err := logging.BootstrapFromEnv("crossnav serve", os.Stdout); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := registry.Load(cfg.RegistryPath, cfg.AppID)
	if err != nil {
		return err
	}

	monitor := health.NewMonitor(reg, cfg.ProbeInterval, cfg.ProbeTimeout)
	go monitor.Run(ctx)

	tracker := dataflow.NewTracker(reg)
	if cfg.DataFlowPath != "" {
		go tracker.RunRefresher(ctx, cfg.DataFlowPath, cfg.DataFlowRefresh)
	}

	sessions := scs.New()
	sessions.Cookie.Name = "crossnav_session"
	sessions.Cookie.Secure = cfg.AuthCookieSecure
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	propagator := navctx.NewPropagator(reg, sessions)

	srv, err := httpapp.NewEchoServer(cfg, reg, monitor, propagator, tracker, sessions)
	if err != nil {
		return err
	}

	_, metricsErrCh := metrics.StartServer(ctx, cfg.MetricsAddr)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr, "app_id", cfg.AppID)
		errCh <- srv.StartServer(httpServer)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-metricsErrCh:
		return err
	}
}
