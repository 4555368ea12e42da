package domain

import "context"

// FoodAnalysis is the structured result of analyzing a food image.
type FoodAnalysis struct {
	Ingredients   []string           `json:"ingredients"`
	TotalCalories float64            `json:"totalCalories"`
	Breakdown     map[string]float64 `json:"breakdown"`
}

// FoodImage carries the raw uploaded image bytes through the analysis flow.
type FoodImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

// VisionAnalyzer sends a food image plus a free-text description to an
// external vision model and parses the calorie analysis it returns.
type VisionAnalyzer interface {
	AnalyzeFood(ctx context.Context, image FoodImage, description string) (*FoodAnalysis, error)
}
