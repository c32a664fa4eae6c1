package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"jobmate/aggregator-service/internal/api"
	"jobmate/aggregator-service/internal/scheduler"
)

var serveNoCron bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  "Start the HTTP API. With DATABASE_URL set, the ingestion and cleanup cron runs alongside it.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoCron, "no-cron", false, "Do not start the ingestion/cleanup scheduler")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	gin.SetMode(a.cfg.GinMode)
	var reader api.JobReader
	if a.store != nil {
		reader = a.store
	}
	router := api.NewRouter(api.NewHandler(a.svc, reader, a.log))

	if a.store != nil && !serveNoCron {
		sched := scheduler.New(a.worker(), a.store, a.cfg.FetchIntervalHours, a.cfg.CleanupDays, a.log)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infow("listening", "port", a.cfg.Port, "version", api.Version, "sources", a.agg.Configured())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "http server")
		}
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Warnw("shutdown error", "error", err)
	}
	a.log.Info("stopped")
	return nil
}
