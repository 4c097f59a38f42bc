package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adrusia/voxgate/usecase"
)

const textServiceName = "voxgate-text"

// streamEndMarker terminates every successful streaming response.
const streamEndMarker = "[DONE]"

// InitTextRoutes initializes the Text Service's routes
func InitTextRoutes(e *echo.Echo, agents *usecase.AgentService, logger *zap.Logger) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Service: textServiceName,
			Version: Version,
		})
	})

	e.POST("/agent", func(c echo.Context) error {
		return processQuery(c, agents, logger)
	})

	e.POST("/agent-streaming", func(c echo.Context) error {
		return processQueryStreaming(c, agents, logger)
	})
}

func processQuery(c echo.Context, agents *usecase.AgentService, logger *zap.Logger) error {
	var req AgentRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind agent request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	response, err := agents.Answer(c.Request().Context(), req.Query, req.Context)
	if err != nil {
		return textErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, AgentResponse{
		Response: response,
		Status:   "success",
	})
}

func processQueryStreaming(c echo.Context, agents *usecase.AgentService, logger *zap.Logger) error {
	var req AgentRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind streaming request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	// Validation failures must come back as JSON, so the stream headers go
	// out only once the first chunk is ready.
	started := false
	writeChunk := func(chunk string) error {
		if !started {
			c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
			c.Response().Header().Set("Cache-Control", "no-cache")
			c.Response().WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", chunk); err != nil {
			return err
		}
		c.Response().Flush()
		return nil
	}

	err := agents.StreamAnswer(c.Request().Context(), req.Query, writeChunk)
	if err != nil {
		if !started {
			return textErrorResponse(c, err)
		}
		// Stream already underway; the missing end marker tells the consumer
		// the response is incomplete.
		logger.Error("Stream aborted", zap.Error(err))
		return nil
	}

	return writeChunk(streamEndMarker)
}

func textErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrEmptyQuery):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_query",
			Message: "Query is required",
		})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "agent_error",
			Message: "Failed to process query",
		})
	}
}
