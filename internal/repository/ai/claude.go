package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/caloria-app/caloria-backend/internal/config"
	"github.com/caloria-app/caloria-backend/internal/domain"
)

const (
	claudeMessagesURL      = "https://api.anthropic.com/v1/messages"
	claudeAPIVersion       = "2023-06-01"
	claudeMaxTokens        = 1024
	claudeStreamBufferSize = 16
)

// ClaudeClient implements domain.AssistantClient against the Anthropic
// messages API.
type ClaudeClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewClaudeClient creates a new assistant client
func NewClaudeClient(cfg config.ClaudeConfig) *ClaudeClient {
	return &ClaudeClient{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    claudeMessagesURL,
	}
}

type messagesRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	Messages  []promptMessage  `json:"messages"`
	Stream    bool             `json:"stream"`
}

type promptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

func (c *ClaudeClient) newRequest(ctx context.Context, prompt string, stream bool) (*http.Request, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: claudeMaxTokens,
		Messages:  []promptMessage{{Role: "user", Content: prompt}},
		Stream:    stream,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build messages request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", claudeAPIVersion)

	return req, nil
}

// SingleResponse sends the prompt and returns the complete reply.
func (c *ClaudeClient) SingleResponse(ctx context.Context, prompt string) (*domain.AssistantResponse, error) {
	req, err := c.newRequest(ctx, prompt, false)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call messages API: %w", err)
	}
	defer resp.Body.Close()

	var msgResp messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return nil, fmt.Errorf("decode messages response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if msgResp.Error != nil {
			return nil, fmt.Errorf("messages API returned %d: %s", resp.StatusCode, msgResp.Error.Message)
		}
		return nil, fmt.Errorf("messages API returned %d", resp.StatusCode)
	}
	if len(msgResp.Content) == 0 {
		return nil, fmt.Errorf("messages API returned no content")
	}

	return &domain.AssistantResponse{Content: msgResp.Content[0].Text}, nil
}

// StreamResponse sends the prompt with streaming enabled and emits text
// deltas as they arrive. Both channels close when the stream ends; the error
// channel carries at most one error.
func (c *ClaudeClient) StreamResponse(ctx context.Context, prompt string) (<-chan domain.AssistantResponse, <-chan error) {
	out := make(chan domain.AssistantResponse, claudeStreamBufferSize)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		req, err := c.newRequest(ctx, prompt, true)
		if err != nil {
			errCh <- err
			return
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			errCh <- fmt.Errorf("call messages API: %w", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			errCh <- fmt.Errorf("messages API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}

			var event streamEvent
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
				continue
			}
			if event.Type != "content_block_delta" || event.Delta.Text == "" {
				continue
			}

			select {
			case out <- domain.AssistantResponse{Content: event.Delta.Text}:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errCh <- fmt.Errorf("read event stream: %w", err)
		}
	}()

	return out, errCh
}
