package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"vethub-sync/internal/adapter/httpapi"
	"vethub-sync/internal/di"
)

const shutdownTimeout = 30 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the integration API and run scheduled imports",
	Long: `Serve the VetRadar integration API:

  POST /api/integrations/vetradar/session
  POST /api/integrations/vetradar/import
  GET  /api/integrations/vetradar/patients?department=
  GET  /healthz
  GET  /metrics

When SYNC_SCHEDULE holds a cron expression, imports also run on that schedule.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()
	log := container.Logger

	if cfg.SyncSchedule != "" {
		if err := container.Scheduler.Schedule(cfg.SyncSchedule); err != nil {
			return err
		}
		container.Scheduler.Start()
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.New(&httpapi.Config{
			Sessions:          container.Sessions,
			Importer:          container.Importer,
			Syncer:            container.Syncer,
			Treatments:        container.Treatments,
			Store:             container.Store,
			Logger:            log,
			Defaults:          cfg.Creds,
			DefaultDepartment: cfg.Department,
			MetricsHandler:    promhttp.HandlerFor(container.Registry, promhttp.HandlerOpts{}),
			RequestLogs:       true,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := container.Scheduler.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop cleanly", "error", err)
	}
	return srv.Shutdown(shutdownCtx)
}
