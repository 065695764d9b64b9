package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecofest/accreditation-api/internal/config"
	"github.com/ecofest/accreditation-api/internal/lifecycle"
	"github.com/ecofest/accreditation-api/internal/logger"
	"github.com/ecofest/accreditation-api/internal/queue"
	"github.com/ecofest/accreditation-api/internal/storage"
	"github.com/ecofest/accreditation-api/internal/storage/postgres"
	"github.com/ecofest/accreditation-api/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log := logger.Worker()

	if !cfg.QueueEnabled() {
		log.Error("REDIS_ADDR is not set, the worker has nothing to consume")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	q, err := queue.Connect(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer q.Close()

	// el worker procesa de forma síncrona: sin jobs anidados
	controller, err := lifecycle.FromConfig(cfg, container, store, nil)
	if err != nil {
		log.Error("Failed to wire lifecycle controller", "error", err)
		os.Exit(1)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutdown signal received")
		cancel()
	}()

	w := worker.New(q, controller)
	if err := w.Run(ctx); err != nil {
		log.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
}
