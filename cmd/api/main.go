package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anime-shed/food-inspector-go/internal/analyzer"
	"github.com/anime-shed/food-inspector-go/internal/classifier"
	"github.com/anime-shed/food-inspector-go/internal/config"
	"github.com/anime-shed/food-inspector-go/internal/container"
	"github.com/anime-shed/food-inspector-go/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	logger.SetLevel(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	// The service is useless without a model, so a load failure aborts startup.
	clf, err := classifier.NewONNXClassifier(classifier.ONNXConfig{
		ModelPath:         cfg.ModelPath,
		MetadataPath:      cfg.ModelMetadataPath,
		SharedLibraryPath: cfg.ONNXRuntimeLib,
		TopK:              cfg.TopK,
	})
	if err != nil {
		logger.WithError(err).WithField("model", cfg.ModelPath).Fatal("Failed to load classifier")
	}

	// Initialize dependency injection container
	c, err := container.NewContainer(cfg, clf)
	if err != nil {
		_ = clf.Close()
		logger.WithError(err).Fatal("Failed to initialize container")
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.WithError(err).Error("Failed to release classifier")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.WatchThresholds {
		go func() {
			if err := analyzer.WatchThresholds(ctx, cfg.ThresholdsFile, c.Analyzer().SetThresholds); err != nil {
				logger.WithError(err).Error("Thresholds watcher stopped")
			}
		}()
	}

	// Create HTTP server with configurable timeouts
	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      c.Handler(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.WriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"address": cfg.ServerAddress(),
			"timeout": cfg.RequestTimeout,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Failed to start server")
			stop()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
		return
	}

	logger.Logger.Info("Server exited")
}
