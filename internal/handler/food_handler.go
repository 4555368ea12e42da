package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/middleware"
	"github.com/caloria-app/caloria-backend/internal/service"
)

// FoodHandler handles food analysis HTTP requests
type FoodHandler struct {
	foodService *service.FoodService
}

// NewFoodHandler creates a new FoodHandler
func NewFoodHandler(foodService *service.FoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

// FoodAnalysisResponse represents the calorie analysis of a meal photo
type FoodAnalysisResponse struct {
	Ingredients   []string           `json:"ingredients"`
	TotalCalories float64            `json:"totalCalories"`
	Breakdown     map[string]float64 `json:"breakdown"`
}

// AnalyzeFood analyzes a meal photo
// @Summary Analyze food image
// @Description Uploads a meal photo, estimates its calories with a vision model and records a diary entry
// @Tags food
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Meal photo"
// @Param description formData string false "Free-text meal description"
// @Success 200 {object} FoodAnalysisResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /food/analyze [post]
func (h *FoodHandler) AnalyzeFood(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	imageData, filename, err := readMultipartImage(c, "image")
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}
	if len(imageData) == 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "image", Message: "Image file is required"},
		})
	}

	image := domain.FoodImage{
		Data:        imageData,
		ContentType: service.GetContentType(filename),
		Filename:    filename,
	}

	analysis, err := h.foodService.AnalyzeFood(c.Request().Context(), userID, image, c.FormValue("description"))
	if err != nil {
		if isImageError(err) {
			return imageUploadError(c, err)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Food analysis failed")
		return c.JSON(http.StatusBadGateway, ProblemDetails{
			Type:     ErrorTypeServiceUnavailable,
			Title:    "Analysis Failed",
			Status:   http.StatusBadGateway,
			Detail:   "The vision model could not analyze this image",
			Instance: c.Request().URL.Path,
		})
	}

	return c.JSON(http.StatusOK, FoodAnalysisResponse{
		Ingredients:   analysis.Ingredients,
		TotalCalories: analysis.TotalCalories,
		Breakdown:     analysis.Breakdown,
	})
}
