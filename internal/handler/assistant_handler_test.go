package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/service"
	"github.com/caloria-app/caloria-backend/internal/testutil"
)

func newAssistantHandlerFixture(client *testutil.MockAssistantClient) *AssistantHandler {
	return NewAssistantHandler(service.NewAssistantService(client))
}

func TestAsk_Success(t *testing.T) {
	e := echo.New()
	handler := newAssistantHandlerFixture(&testutil.MockAssistantClient{
		SingleFn: func(ctx context.Context, prompt string) (*domain.AssistantResponse, error) {
			return &domain.AssistantResponse{Content: "Eat more vegetables."}, nil
		},
	})

	req, rec := jsonRequest(http.MethodPost, "/api/v1/assistant", `{"prompt":"dinner tips"}`)
	c := e.NewContext(req, rec)
	setAuthContext(c, uuid.New())

	if err := handler.Ask(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response AssistantResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Content != "Eat more vegetables." {
		t.Errorf("Expected assistant reply, got %s", response.Content)
	}
}

func TestAsk_EmptyPrompt(t *testing.T) {
	e := echo.New()
	handler := newAssistantHandlerFixture(&testutil.MockAssistantClient{})

	req, rec := jsonRequest(http.MethodPost, "/api/v1/assistant", `{"prompt":""}`)
	c := e.NewContext(req, rec)
	setAuthContext(c, uuid.New())

	if err := handler.Ask(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestAsk_UpstreamFailure(t *testing.T) {
	e := echo.New()
	handler := newAssistantHandlerFixture(&testutil.MockAssistantClient{
		SingleFn: func(ctx context.Context, prompt string) (*domain.AssistantResponse, error) {
			return nil, errors.New("model unavailable")
		},
	})

	req, rec := jsonRequest(http.MethodPost, "/api/v1/assistant", `{"prompt":"hello"}`)
	c := e.NewContext(req, rec)
	setAuthContext(c, uuid.New())

	if err := handler.Ask(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", rec.Code)
	}
}

func TestStream_SSE(t *testing.T) {
	e := echo.New()
	handler := newAssistantHandlerFixture(&testutil.MockAssistantClient{
		StreamFn: func(ctx context.Context, prompt string) (<-chan domain.AssistantResponse, <-chan error) {
			out := make(chan domain.AssistantResponse, 2)
			errCh := make(chan error)
			out <- domain.AssistantResponse{Content: "Hello"}
			out <- domain.AssistantResponse{Content: " world"}
			close(out)
			close(errCh)
			return out, errCh
		},
	})

	req, rec := jsonRequest(http.MethodPost, "/api/v1/assistant/stream", `{"prompt":"hi"}`)
	c := e.NewContext(req, rec)
	setAuthContext(c, uuid.New())

	if err := handler.Stream(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream content type, got %s", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `data: {"content":"Hello"}`) {
		t.Errorf("Expected first chunk in SSE body, got %q", body)
	}
	if !strings.Contains(body, `data: {"content":" world"}`) {
		t.Errorf("Expected second chunk in SSE body, got %q", body)
	}
	if !strings.Contains(body, "data: [DONE]") {
		t.Errorf("Expected [DONE] terminator, got %q", body)
	}
}

func TestStream_EmptyPrompt(t *testing.T) {
	e := echo.New()
	handler := newAssistantHandlerFixture(&testutil.MockAssistantClient{})

	req, rec := jsonRequest(http.MethodPost, "/api/v1/assistant/stream", `{"prompt":""}`)
	c := e.NewContext(req, rec)
	setAuthContext(c, uuid.New())

	if err := handler.Stream(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestStream_UpstreamError(t *testing.T) {
	e := echo.New()
	handler := newAssistantHandlerFixture(&testutil.MockAssistantClient{
		StreamFn: func(ctx context.Context, prompt string) (<-chan domain.AssistantResponse, <-chan error) {
			out := make(chan domain.AssistantResponse)
			errCh := make(chan error, 1)
			errCh <- errors.New("stream broke")
			close(out)
			close(errCh)
			return out, errCh
		},
	})

	req, rec := jsonRequest(http.MethodPost, "/api/v1/assistant/stream", `{"prompt":"hi"}`)
	c := e.NewContext(req, rec)
	setAuthContext(c, uuid.New())

	if err := handler.Stream(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("Expected SSE error event, got %q", rec.Body.String())
	}
}
