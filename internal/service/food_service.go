package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/events"
)

// FoodService handles meal photo analysis
type FoodService struct {
	analyzer domain.VisionAnalyzer
	images   *ImageService
	bus      *events.Bus
}

// NewFoodService creates a new FoodService
func NewFoodService(analyzer domain.VisionAnalyzer, images *ImageService, bus *events.Bus) *FoodService {
	return &FoodService{
		analyzer: analyzer,
		images:   images,
		bus:      bus,
	}
}

// AnalyzeFood stores the meal photo, asks the vision model for a calorie
// estimate and publishes the result. The diary entry is created by the
// food.analyzed subscriber, not here.
func (s *FoodService) AnalyzeFood(ctx context.Context, userID uuid.UUID, image domain.FoodImage, description string) (*domain.FoodAnalysis, error) {
	imagePath, err := s.images.CompressAndUpload(ctx, userID, "food", image.Data, image.Filename)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyzer.AnalyzeFood(ctx, image, description)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Food analysis failed")
		return nil, err
	}

	s.bus.Publish(ctx, events.FoodAnalyzed{
		UserID:      userID,
		ImageURL:    imagePath,
		Description: description,
		Analysis:    *analysis,
	})

	log.Info().
		Str("user_id", userID.String()).
		Float64("total_calories", analysis.TotalCalories).
		Msg("Food analyzed")
	return analysis, nil
}
