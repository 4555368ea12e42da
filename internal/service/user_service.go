package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/caloria-app/caloria-backend/internal/domain"
)

// UserService handles user profile business logic
type UserService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUserInfo retrieves a user's profile
func (s *UserService) GetUserInfo(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateTargetCalories sets the user's daily calorie target
func (s *UserService) UpdateTargetCalories(ctx context.Context, userID uuid.UUID, targetCalories int) (*domain.User, error) {
	if targetCalories < domain.MinTargetCalories {
		return nil, domain.ErrInvalidTargetCalories
	}

	user, err := s.userRepo.UpdateTargetCalories(ctx, userID, targetCalories)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Int("target_calories", targetCalories).
		Msg("Updated target calories")
	return user, nil
}
