package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/adrusia/voxgate/adapters/llm"
	"github.com/adrusia/voxgate/internal/api"
	"github.com/adrusia/voxgate/internal/config"
	"github.com/adrusia/voxgate/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zapConfig.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// The text service is useless without its agent; fail fast.
	coordinator, err := llm.NewGeminiCoordinator(context.Background(), llm.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize coordinator agent", zap.Error(err))
	}

	agentService := usecase.NewAgentService(coordinator, logger)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.InitTextRoutes(e, agentService, logger)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.TextPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Text service started", zap.String("port", cfg.TextPort))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Text service is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Text service exited")
}
