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

	"github.com/esther-lms/learning-service/internal/auth"
	"github.com/esther-lms/learning-service/internal/config"
	"github.com/esther-lms/learning-service/internal/events"
	"github.com/esther-lms/learning-service/internal/handlers"
	"github.com/esther-lms/learning-service/internal/repositories/postgres"
	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
	"github.com/esther-lms/learning-service/internal/validator"
	"github.com/esther-lms/learning-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogLogger)
	logger := utils.NewSlogLogger(slogLogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		slogLogger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		slogLogger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient == nil {
		slogLogger.Info("Redis not configured, caching disabled")
	}

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})

	tokens := auth.NewTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
	)

	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventTopic, slogLogger)
		if err != nil {
			slogLogger.Error("Failed to create kafka publisher", "error", err)
			os.Exit(1)
		}
		slogLogger.Info("Publishing events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.EventTopic)
	} else {
		publisher = events.NewGoChannelPublisher(cfg.EventTopic, slogLogger)
		slogLogger.Info("Publishing events in process", "topic", cfg.EventTopic)
	}

	serviceManager := services.NewDefaultServiceManager(db, repo, slogLogger, validator.New(), tokens, publisher)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		slogLogger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.SetupMiddleware(router, logger, cfg.CORSOrigins)
	handlers.NewHandlerManager(serviceManager, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slogLogger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogLogger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slogLogger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slogLogger.Error("Server shutdown failed", "error", err)
	}
	if err := serviceManager.Shutdown(ctx); err != nil {
		slogLogger.Error("Service shutdown failed", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slogLogger.Error("Redis close failed", "error", err)
		}
	}
	if err := pkg.CloseDatabase(db); err != nil {
		slogLogger.Error("Database close failed", "error", err)
	}

	slogLogger.Info("Shutdown complete")
}
