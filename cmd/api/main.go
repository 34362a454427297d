package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/focitech/focitech-backend/config"
	"github.com/focitech/focitech-backend/internal/bootstrap"
	cronjob "github.com/focitech/focitech-backend/internal/careers/cron"
	"github.com/focitech/focitech-backend/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(logging.Config{
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		Env:     cfg.App.Environment,
		Level:   cfg.App.LogLevel,
		Format:  cfg.App.LogFormat,
	}, nil)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.BuildDeps(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.Close()

	bootstrap.SetGinMode(cfg.App.Environment, cfg.App.Debug)

	careers := bootstrap.NewCareersService(cfg, deps)

	var scheduler *cronjob.Scheduler
	if cfg.Cron.Enabled {
		scheduler = cronjob.NewScheduler(careers, cfg.Cron.CloseExpiredSpec, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error("cron scheduler not started", slog.String("error", err.Error()))
			scheduler = nil
		}
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:  cfg,
		Logger:  logger,
		Deps:    deps,
		Careers: careers,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}
