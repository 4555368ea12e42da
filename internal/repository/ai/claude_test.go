package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caloria-app/caloria-backend/internal/config"
)

func newTestClaudeClient(serverURL string) *ClaudeClient {
	client := NewClaudeClient(config.ClaudeConfig{APIKey: "test-key", Model: "claude-3-sonnet-20240229"})
	client.baseURL = serverURL
	return client
}

func TestSingleResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("Expected anthropic-version header, got %s", r.Header.Get("anthropic-version"))
		}

		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected stream false for single response")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"text": "Eat more vegetables."}},
		})
	}))
	defer server.Close()

	resp, err := newTestClaudeClient(server.URL).SingleResponse(context.Background(), "diet advice")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Content != "Eat more vegetables." {
		t.Errorf("Expected content, got %s", resp.Content)
	}
}

func TestSingleResponseAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited"},
		})
	}))
	defer server.Close()

	_, err := newTestClaudeClient(server.URL).SingleResponse(context.Background(), "hi")
	if err == nil {
		t.Fatal("Expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Expected API error message in error, got %v", err)
	}
}

func TestStreamResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if !req.Stream {
			t.Error("Expected stream true")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\n")
		fmt.Fprint(w, `data: {"type":"message_start"}`+"\n\n")
		fmt.Fprint(w, `data: {"type":"content_block_delta","delta":{"text":"Hello"}}`+"\n\n")
		fmt.Fprint(w, `data: {"type":"content_block_delta","delta":{"text":" world"}}`+"\n\n")
		fmt.Fprint(w, `data: {"type":"message_stop"}`+"\n\n")
	}))
	defer server.Close()

	out, errCh := newTestClaudeClient(server.URL).StreamResponse(context.Background(), "hi")

	var got []string
	for chunk := range out {
		got = append(got, chunk.Content)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Join(got, "") != "Hello world" {
		t.Errorf("Expected streamed text 'Hello world', got %q", strings.Join(got, ""))
	}
}

func TestStreamResponseAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad request"}}`)
	}))
	defer server.Close()

	out, errCh := newTestClaudeClient(server.URL).StreamResponse(context.Background(), "hi")

	for range out {
		t.Error("Expected no chunks on error")
	}
	if err := <-errCh; err == nil {
		t.Fatal("Expected error for non-200 response")
	}
}
