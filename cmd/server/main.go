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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	dashboard "github.com/respinosap/t2-repo"
	"github.com/respinosap/t2-repo/internal/config"
	"github.com/respinosap/t2-repo/internal/handlers"
	"github.com/respinosap/t2-repo/internal/logging"
	"github.com/respinosap/t2-repo/internal/metrics"
	"github.com/respinosap/t2-repo/loader"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err.Error())
	}

	cfg := config.LoadConfig()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	if cfg.CPUProfileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.CPUProfileDir), profile.Quiet).Stop()
	}

	start := time.Now()
	tbl, err := loader.Load(cfg.DataPath)
	if err != nil {
		return err
	}

	opt := dashboard.NewDefaultOptions()
	opt.Holidays = cfg.Holidays
	dash, err := dashboard.New(tbl, opt)
	if err != nil {
		return err
	}

	bounds := dash.Bounds()
	log.Info("dataset loaded",
		"path", cfg.DataPath,
		"rows", bounds.Rows,
		"start", bounds.Start.Format(dashboard.TimeFormat),
		"end", bounds.End.Format(dashboard.TimeFormat),
		"interval", bounds.Interval.String(),
		"took", time.Since(start),
	)

	m := metrics.New(prometheus.NewRegistry())
	m.SetDatasetRows(bounds.Rows)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.NewRouter(dash, log, m),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
