package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecofest/accreditation-api/internal/config"
	"github.com/ecofest/accreditation-api/internal/lifecycle"
	"github.com/ecofest/accreditation-api/internal/logger"
	"github.com/ecofest/accreditation-api/internal/queue"
	"github.com/ecofest/accreditation-api/internal/server"
	"github.com/ecofest/accreditation-api/internal/storage"
	"github.com/ecofest/accreditation-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log := logger.Service("api")

	ctx := context.Background()

	container, err := postgres.NewContainer(cfg)
	if err != nil {
		log.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	store, err := storage.NewBlobStore(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize blob storage", "error", err)
		os.Exit(1)
	}

	var jobs lifecycle.Jobs
	if cfg.QueueEnabled() {
		q, err := queue.Connect(ctx, cfg)
		if err != nil {
			log.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer q.Close()
		jobs = q
		log.Info("Job queue enabled", "addr", cfg.Redis.Addr)
	} else {
		log.Info("No job queue configured, notifications run synchronously")
	}

	controller, err := lifecycle.FromConfig(cfg, container, store, jobs)
	if err != nil {
		log.Error("Failed to wire lifecycle controller", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, container, store, controller)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("Server stopped with error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}
