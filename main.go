package main

import (
	"context"
	"errors"
	"flag"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prism/internal/config"
	"prism/internal/log"
	"prism/internal/server"
	"prism/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}
	logger := log.New(cfg.LogLevel)

	registry, err := service.NewRegistry(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build source registry")
	}
	defer registry.Close()

	if err := registry.StartHealthChecks(); err != nil {
		logger.WithError(err).Fatal("failed to schedule health checks")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := config.Watch(ctx, *configPath, logger); err != nil {
		logger.WithError(err).Warn("config watcher unavailable")
	}

	srv := server.New(registry, logger)
	httpSrv := &http.Server{
		Addr:    cfg.Address,
		Handler: srv.Handler(),
	}

	go func() {
		logger.WithField("address", cfg.Address).Info("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("forced shutdown")
	}
}
