package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/post"
	"blog-backend/internal/domains/post/job"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Worker] Failed to load config: %v", err)
	}
	logger.Init(cfg.App.Environment)

	// Object storage is the only heavyweight dependency the worker needs
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		log.Fatalf("[Worker] Failed to initialize storage: %v", err)
	}

	// Register task handlers
	mux := asynq.NewServeMux()
	mux.Handle(post.TaskDeleteCoverImages, job.NewDeleteCoverImagesHandler(minioStorage))
	mux.Handle(post.TaskProcessCoverImage, job.NewProcessCoverImageHandler(minioStorage, storage.NewImageProcessor()))

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Worker] ❌ Task failed - Type: %s, Error: %v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("[Worker] Shutting down...")
	srv.Shutdown()
	log.Println("[Worker] ✓ Stopped")
}
