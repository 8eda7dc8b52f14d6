package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcfg "github.com/park285/chess-coach-api/internal/config"
	"github.com/park285/chess-coach-api/internal/coachbuilder"
	"github.com/park285/chess-coach-api/internal/obslog"
	"github.com/park285/chess-coach-api/internal/server"
	"go.uber.org/zap"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	deps, err := coachbuilder.New(cfg, logger)
	if err != nil {
		logger.Fatal("dependency init error", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	srv := server.New(deps.Service, deps.Renderer, deps.Catalog, cfg.MaxUploadBytes, logger.Named("http"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.ListenAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("http server error", zap.Error(err))
		}
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	}
}
