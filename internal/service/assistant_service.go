package service

import (
	"context"

	"github.com/caloria-app/caloria-backend/internal/domain"
)

// AssistantService exposes the nutrition assistant
type AssistantService struct {
	client domain.AssistantClient
}

// NewAssistantService creates a new AssistantService
func NewAssistantService(client domain.AssistantClient) *AssistantService {
	return &AssistantService{client: client}
}

// Single returns the assistant's complete reply to a prompt
func (s *AssistantService) Single(ctx context.Context, prompt string) (*domain.AssistantResponse, error) {
	if prompt == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.client.SingleResponse(ctx, prompt)
}

// Stream returns the assistant's reply as a stream of text deltas
func (s *AssistantService) Stream(ctx context.Context, prompt string) (<-chan domain.AssistantResponse, <-chan error) {
	return s.client.StreamResponse(ctx, prompt)
}
