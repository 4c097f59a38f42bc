package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adrusia/voxgate/domain/repositories"
	"github.com/adrusia/voxgate/usecase"
)

const voiceServiceName = "voxgate-voice"

// VoiceGatewayConfig carries the static values echoed by GET /info.
type VoiceGatewayConfig struct {
	BackendURL      string
	VoicePort       int
	UltravoxEnabled bool
}

// InitVoiceRoutes initializes the Voice Gateway's routes
func InitVoiceRoutes(
	e *echo.Echo,
	relay *usecase.RelayService,
	voice repositories.VoiceProvider,
	cfg VoiceGatewayConfig,
	logger *zap.Logger,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Service: voiceServiceName,
			Version: Version,
		})
	})

	e.GET("/info", func(c echo.Context) error {
		return c.JSON(http.StatusOK, InfoResponse{
			Service:         voiceServiceName,
			BackendURL:      cfg.BackendURL,
			VoicePort:       cfg.VoicePort,
			UltravoxEnabled: cfg.UltravoxEnabled,
		})
	})

	e.POST("/query-agent", func(c echo.Context) error {
		return queryVoiceAgent(c, relay, logger)
	})

	e.POST("/create-call", func(c echo.Context) error {
		return createVoiceCall(c, voice, logger)
	})
}

func queryVoiceAgent(c echo.Context, relay *usecase.RelayService, logger *zap.Logger) error {
	var req VoiceQueryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind voice query", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	reply, err := relay.Forward(c.Request().Context(), usecase.VoiceTurn{
		TranscribedText: req.TranscribedText,
		SessionID:       req.SessionID,
	})
	if err != nil {
		return voiceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, VoiceQueryResponse{
		Response:  reply.Response,
		SessionID: reply.SessionID,
	})
}

func createVoiceCall(c echo.Context, voice repositories.VoiceProvider, logger *zap.Logger) error {
	// An empty body selects the default system prompt.
	var req CreateCallRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind create-call request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if voice == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "voice_disabled",
			Message: "Voice provider is not configured",
		})
	}

	call, err := voice.CreateCall(c.Request().Context(), req.SystemPrompt)
	if err != nil {
		logger.Error("Call creation failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "provider_error",
			Message: "Error creating call with voice provider",
		})
	}

	return c.JSON(http.StatusOK, CreateCallResponse{
		CallID:  call.CallID,
		JoinURL: call.JoinURL,
		Status:  "created",
	})
}

// voiceErrorResponse maps forwarding failures to HTTP statuses exactly once.
func voiceErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrEmptyTranscript):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_transcribed_text",
			Message: "Transcribed text is required",
		})
	case errors.Is(err, repositories.ErrBackendTimeout):
		return c.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Error:   "backend_timeout",
			Message: "Backend agent did not respond in time",
		})
	case errors.Is(err, repositories.ErrBackendUnavailable),
		errors.Is(err, repositories.ErrBackendStatus):
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "backend_error",
			Message: "Error from backend agent",
		})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to process voice query",
		})
	}
}
