package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rongwang/shiftlog-server/internal/api"
	"github.com/rongwang/shiftlog-server/internal/config"
	"github.com/rongwang/shiftlog-server/internal/models"
	"github.com/rongwang/shiftlog-server/internal/repository"
	"github.com/rongwang/shiftlog-server/internal/service"
	"github.com/rongwang/shiftlog-server/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Log.Level, cfg.Log.Format, "shiftlog-server")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Create repository
	repo, closeRepo, err := openRepository(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up repository", zap.Error(err))
	}
	defer closeRepo()

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth, logger)

	// Create API handler
	handler := api.NewHandler(svc, logger)

	// Set up Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger(logger))

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.Server.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

func openRepository(cfg *config.Config, logger *zap.Logger) (repository.Repository, func(), error) {
	switch cfg.Server.StoreDriver {
	case "postgres":
		db, err := config.SetupDatabase(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresRepository(db), func() { db.Close() }, nil

	case "memory":
		repo := repository.NewMemoryRepository()
		for _, def := range config.DefaultCategories {
			category := &models.Category{
				Code:      def.Code,
				Name:      def.Name,
				IsActive:  true,
				SortOrder: def.SortOrder,
			}
			if err := repo.CreateCategory(context.Background(), category); err != nil {
				return nil, nil, fmt.Errorf("seed categories: %w", err)
			}
		}
		logger.Warn("Using in-memory store, data is lost on restart")
		return repo, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Server.StoreDriver)
	}
}
