package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/middleware"
	"github.com/caloria-app/caloria-backend/internal/service"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID                string  `json:"id"`
	Email             string  `json:"email"`
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	OAuthProvider     *string `json:"oauthProvider,omitempty"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
	TargetCalories    *int    `json:"targetCalories,omitempty"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                user.ID.String(),
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		OAuthProvider:     user.OAuthProvider,
		ProfilePictureURL: user.ProfilePictureURL,
		TargetCalories:    user.TargetCalories,
	}
}

// UpdateTargetCaloriesRequest represents the target calories update body
type UpdateTargetCaloriesRequest struct {
	TargetCalories int `json:"targetCalories"`
}

// GetProfile returns the authenticated user's profile
// @Summary Get user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.userService.GetUserInfo(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get user")
		return NewInternalError(c, "Failed to get user")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateTargetCalories sets the user's daily calorie target
// @Summary Update target calories
// @Description Sets the daily calorie target. Values below 500 are rejected
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateTargetCaloriesRequest true "Target calories"
// @Success 200 {object} UserResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /users/me/target-calories [patch]
func (h *UserHandler) UpdateTargetCalories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateTargetCaloriesRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.userService.UpdateTargetCalories(c.Request().Context(), userID, req.TargetCalories)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTargetCalories):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "targetCalories", Message: "Must be at least 500"},
			})
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update target calories")
			return NewInternalError(c, "Failed to update target calories")
		}
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}
