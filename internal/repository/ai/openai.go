// Package ai contains clients for the external model APIs used for food
// analysis and the nutrition assistant.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/caloria-app/caloria-backend/internal/config"
	"github.com/caloria-app/caloria-backend/internal/domain"
)

const (
	openAIChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

	foodSystemPrompt = `You are a food analysis AI. Analyze the food image and description, then provide a JSON response with the following structure:
{
  "ingredients": string[],
  "totalCalories": number,
  "breakdown": {
    [ingredient: string]: number
  }
}`
)

// OpenAIClient implements domain.VisionAnalyzer against the OpenAI chat
// completions API.
type OpenAIClient struct {
	httpClient *http.Client
	apiKey     string
	orgID      string
	projectID  string
	model      string
	baseURL    string
}

// NewOpenAIClient creates a new OpenAI vision client
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     cfg.APIKey,
		orgID:      cfg.OrgID,
		projectID:  cfg.ProjectID,
		model:      cfg.Model,
		baseURL:    openAIChatCompletionsURL,
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type analysisPayload struct {
	Ingredients   []string           `json:"ingredients"`
	TotalCalories float64            `json:"totalCalories"`
	Breakdown     map[string]float64 `json:"breakdown"`
}

// AnalyzeFood sends the meal photo and description to the model and parses
// the structured calorie estimate from its JSON reply.
func (c *OpenAIClient) AnalyzeFood(ctx context.Context, image domain.FoodImage, description string) (*domain.FoodAnalysis, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", image.ContentType, base64.StdEncoding.EncodeToString(image.Data))

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: foodSystemPrompt},
			{Role: "user", Content: []contentPart{
				{
					Type: "text",
					Text: fmt.Sprintf("Analyze this food image and the given description: %s. Provide ingredients, total calories, and calorie breakdown.", description),
				},
				{
					Type:     "image_url",
					ImageURL: &imageURL{URL: dataURL},
				},
			}},
		},
		MaxTokens:      500,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.orgID != "" {
		req.Header.Set("OpenAI-Organization", c.orgID)
	}
	if c.projectID != "" {
		req.Header.Set("OpenAI-Project", c.projectID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call chat completions: %w", err)
	}
	defer resp.Body.Close()

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil {
			return nil, fmt.Errorf("chat completions returned %d: %s", resp.StatusCode, chatResp.Error.Message)
		}
		return nil, fmt.Errorf("chat completions returned %d", resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("chat completions returned no choices")
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("parse analysis result: %w", err)
	}

	return &domain.FoodAnalysis{
		Ingredients:   payload.Ingredients,
		TotalCalories: payload.TotalCalories,
		Breakdown:     payload.Breakdown,
	}, nil
}
