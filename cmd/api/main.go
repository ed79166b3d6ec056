package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumeflow/internal/api"
	"resumeflow/internal/auth"
	"resumeflow/internal/config"
	"resumeflow/internal/database"
	"resumeflow/internal/draft"
	"resumeflow/internal/enhance"
	"resumeflow/internal/storage"
	"resumeflow/internal/store"
	"resumeflow/internal/wizard"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := db.AutoMigrate(&database.User{}, &database.Resume{}); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	logger.Info("database ready",
		slog.String("host", cfg.Database.Host),
		slog.String("name", cfg.Database.Name),
	)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer asynqClient.Close()

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage ready", slog.String("bucket", cfg.MinIO.Bucket))

	authService, err := auth.NewServiceFromFiles(
		cfg.Auth.PrivateKeyPath,
		cfg.Auth.PublicKeyPath,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	gateway := store.NewGateway(db)
	drafts := draft.NewRedisStore(redisClient, logger)
	sessions := wizard.NewManager(drafts, gateway)

	extractor, err := enhance.NewGeminiExtractor(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("init gemini extractor: %v", err)
	}
	var scanner enhance.Scanner
	if cfg.Clamd.Addr != "" {
		scanner = enhance.NewClamdScanner(cfg.Clamd.Addr)
		logger.Info("upload scanning enabled", slog.String("clamd_addr", cfg.Clamd.Addr))
	}
	pipeline := enhance.NewPipeline(extractor, scanner, enhance.NewStorageArchiver(storageClient), logger)

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, cfg, db, gateway, sessions, asynqClient, authService, redisClient, storageClient, pipeline, logger)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening", slog.String("address", address))
	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
