package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-candidate-backend/config"
	_ "go-candidate-backend/docs" // Important for Swagger
	"go-candidate-backend/internal/delivery/http/v1"
	"go-candidate-backend/internal/domain"
	"go-candidate-backend/internal/repository/postgres"
	"go-candidate-backend/internal/usecase"
	"go-candidate-backend/pkg/database"
	"go-candidate-backend/pkg/logger"
	"go-candidate-backend/pkg/redis"

	"github.com/go-playground/validator/v10"
)

// @title           Candidate Backend API
// @version         1.0
// @description     Candidate CRUD backend with skills, focus areas, and free-form attributes.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting candidate backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (rate limiter backend; optional)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	skillRepo := postgres.NewTagRepository(dbPool, domain.TagKindSkill)
	focusAreaRepo := postgres.NewTagRepository(dbPool, domain.TagKindFocusArea)

	// 6. Setup UseCases
	validate := validator.New()
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, userRepo, skillRepo, focusAreaRepo, validate)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC: candidateUC,
		Config:      cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
