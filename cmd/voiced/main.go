package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/adrusia/voxgate/adapters/backend"
	"github.com/adrusia/voxgate/adapters/ultravox"
	"github.com/adrusia/voxgate/domain/repositories"
	"github.com/adrusia/voxgate/internal/api"
	"github.com/adrusia/voxgate/internal/config"
	"github.com/adrusia/voxgate/internal/websocket"
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

	backendClient, err := backend.NewClient(backend.ClientConfig{
		BaseURL: cfg.BackendURL,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize backend client", zap.Error(err))
	}

	relayService := usecase.NewRelayService(backendClient, logger)

	// Without an API key the gateway still relays queries; only call
	// creation is unavailable.
	var voiceProvider repositories.VoiceProvider
	if cfg.UltravoxEnabled() {
		voiceProvider, err = ultravox.NewClient(ultravox.NewConfigFromEnv(), logger)
		if err != nil {
			logger.Fatal("Failed to initialize ultravox client", zap.Error(err))
		}
	} else {
		logger.Warn("ULTRAVOX_API_KEY not set, call creation disabled")
	}

	// Initialize WebSocket hub for the provider's transcript stream
	hub := websocket.NewHub(relayService, logger)
	go hub.Run()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Load already validated the port is numeric.
	voicePort, err := strconv.Atoi(cfg.VoicePort)
	if err != nil {
		logger.Fatal("Invalid voice port", zap.String("port", cfg.VoicePort), zap.Error(err))
	}

	api.InitVoiceRoutes(e, relayService, voiceProvider, api.VoiceGatewayConfig{
		BackendURL:      cfg.BackendURL,
		VoicePort:       voicePort,
		UltravoxEnabled: cfg.UltravoxEnabled(),
	}, logger)

	e.GET("/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(hub, c, logger)
	})

	// Start server
	go func() {
		if err := e.Start(":" + cfg.VoicePort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Voice gateway started",
		zap.String("port", cfg.VoicePort),
		zap.String("backend_url", cfg.BackendURL),
		zap.Bool("ultravox_enabled", cfg.UltravoxEnabled()))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Voice gateway is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Voice gateway exited")
}
