package domain

import "context"

// AssistantResponse is a single chunk of text produced by the assistant model.
type AssistantResponse struct {
	Content string `json:"content"`
}

// AssistantClient talks to an external LLM messages API.
type AssistantClient interface {
	// SingleResponse returns the complete response for a prompt.
	SingleResponse(ctx context.Context, prompt string) (*AssistantResponse, error)
	// StreamResponse emits response chunks on the returned channel. The
	// channel is closed when the stream ends; the first error encountered is
	// delivered on the error channel.
	StreamResponse(ctx context.Context, prompt string) (<-chan AssistantResponse, <-chan error)
}
