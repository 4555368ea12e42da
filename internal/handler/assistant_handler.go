package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/middleware"
	"github.com/caloria-app/caloria-backend/internal/service"
)

// AssistantHandler handles nutrition assistant HTTP requests
type AssistantHandler struct {
	assistantService *service.AssistantService
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(assistantService *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// AssistantRequest represents an assistant prompt
type AssistantRequest struct {
	Prompt string `json:"prompt"`
}

// AssistantResponse represents a complete assistant reply
type AssistantResponse struct {
	Content string `json:"content"`
}

// Ask returns the assistant's complete reply
// @Summary Ask the assistant
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssistantRequest true "Prompt"
// @Success 200 {object} AssistantResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /assistant [post]
func (h *AssistantHandler) Ask(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req AssistantRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	resp, err := h.assistantService.Single(c.Request().Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "prompt", Message: "Prompt is required"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Assistant request failed")
		return c.JSON(http.StatusBadGateway, ProblemDetails{
			Type:     ErrorTypeServiceUnavailable,
			Title:    "Assistant Unavailable",
			Status:   http.StatusBadGateway,
			Detail:   "The assistant could not produce a reply",
			Instance: c.Request().URL.Path,
		})
	}

	return c.JSON(http.StatusOK, AssistantResponse{Content: resp.Content})
}

// Stream streams the assistant's reply as Server-Sent Events
// @Summary Stream assistant reply
// @Description Streams text deltas as SSE "data:" lines, terminated by a [DONE] event
// @Tags assistant
// @Accept json
// @Produce text/event-stream
// @Security BearerAuth
// @Param request body AssistantRequest true "Prompt"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /assistant/stream [post]
func (h *AssistantHandler) Stream(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req AssistantRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Prompt == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "prompt", Message: "Prompt is required"},
		})
	}

	ctx := c.Request().Context()
	chunks, errCh := h.assistantService.Stream(ctx, req.Prompt)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	flusher, canFlush := res.Writer.(http.Flusher)

	for {
		select {
		case <-ctx.Done():
			return nil
		case chunk, ok := <-chunks:
			if !ok {
				// A pending stream error takes precedence over a clean close
				select {
				case err, open := <-errCh:
					if open && err != nil {
						log.Error().Err(err).Str("user_id", userID.String()).Msg("Assistant stream failed")
						fmt.Fprint(res, "event: error\ndata: stream failed\n\n")
						if canFlush {
							flusher.Flush()
						}
						return nil
					}
				default:
				}
				fmt.Fprint(res, "data: [DONE]\n\n")
				if canFlush {
					flusher.Flush()
				}
				return nil
			}
			payload, err := json.Marshal(chunk)
			if err != nil {
				continue
			}
			fmt.Fprintf(res, "data: %s\n\n", payload)
			if canFlush {
				flusher.Flush()
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				log.Error().Err(err).Str("user_id", userID.String()).Msg("Assistant stream failed")
				fmt.Fprint(res, "event: error\ndata: stream failed\n\n")
				if canFlush {
					flusher.Flush()
				}
				return nil
			}
		}
	}
}
