package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/middleware"
	"github.com/caloria-app/caloria-backend/internal/service"
)

// DiaryHandler handles meal diary HTTP requests
type DiaryHandler struct {
	diaryService *service.DiaryService
}

// NewDiaryHandler creates a new DiaryHandler
func NewDiaryHandler(diaryService *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

// DiaryResponse represents a diary entry in API responses
type DiaryResponse struct {
	ID               string             `json:"id"`
	Content          string             `json:"content"`
	ImageURL         *string            `json:"imageUrl,omitempty"`
	TotalCalories    *float64           `json:"totalCalories,omitempty"`
	CalorieBreakdown map[string]float64 `json:"calorieBreakdown,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// UpdateDiaryRequest represents the diary update body
type UpdateDiaryRequest struct {
	Content string `json:"content"`
}

func (h *DiaryHandler) toDiaryResponse(c echo.Context, diary *domain.Diary) DiaryResponse {
	resp := DiaryResponse{
		ID:               diary.ID.String(),
		Content:          diary.Content,
		TotalCalories:    diary.TotalCalories,
		CalorieBreakdown: diary.CalorieBreakdown,
		CreatedAt:        diary.CreatedAt,
		UpdatedAt:        diary.UpdatedAt,
	}

	if diary.ImageURL != nil {
		url, err := h.diaryService.ImageURL(c.Request().Context(), diary)
		if err != nil {
			log.Warn().Err(err).Str("diary_id", diary.ID.String()).Msg("Failed to presign diary image")
		} else if url != "" {
			resp.ImageURL = &url
		}
	}

	return resp
}

func (h *DiaryHandler) toDiaryListResponse(c echo.Context, diaries []*domain.Diary) []DiaryResponse {
	responses := make([]DiaryResponse, 0, len(diaries))
	for _, d := range diaries {
		responses = append(responses, h.toDiaryResponse(c, d))
	}
	return responses
}

// readMultipartImage reads an optional uploaded file from a multipart form.
// Returns nil data when no file was attached.
func readMultipartImage(c echo.Context, field string) ([]byte, string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", err
	}

	return data, file.Filename, nil
}

// isImageError reports whether err is one of the image validation failures
func isImageError(err error) bool {
	return errors.Is(err, service.ErrImageTooLarge) ||
		errors.Is(err, service.ErrInvalidFormat) ||
		errors.Is(err, service.ErrImageTooSmall) ||
		errors.Is(err, service.ErrInvalidImageData) ||
		errors.Is(err, service.ErrImageStorageNotConfigured)
}

// imageUploadError maps image processing failures to problem responses
func imageUploadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrImageTooLarge):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "image", Message: "File too large. Maximum size is 5MB"},
		})
	case errors.Is(err, service.ErrInvalidFormat):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "image", Message: "Invalid format. Supported: JPEG, PNG, WebP"},
		})
	case errors.Is(err, service.ErrImageTooSmall):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "image", Message: "Image too small. Minimum 50x50 pixels"},
		})
	case errors.Is(err, service.ErrInvalidImageData):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "image", Message: "Invalid image data"},
		})
	case errors.Is(err, service.ErrImageStorageNotConfigured):
		return NewServiceUnavailableError(c, "Image uploads are disabled (storage not configured)")
	default:
		log.Error().Err(err).Msg("Image upload failed")
		return NewInternalError(c, "Failed to process image")
	}
}

// CreateDiary creates a new diary entry
// @Summary Create diary entry
// @Description Creates a diary entry from multipart form data with optional attached image
// @Tags diaries
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param content formData string true "Entry content"
// @Param image formData file false "Attached meal photo"
// @Success 201 {object} DiaryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /diaries [post]
func (h *DiaryHandler) CreateDiary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	content := c.FormValue("content")
	if content == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "content", Message: "Content is required"},
		})
	}

	imageData, filename, err := readMultipartImage(c, "image")
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	diary, err := h.diaryService.Create(c.Request().Context(), userID, content, imageData, filename)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "content", Message: "Content must be non-empty and at most 10000 characters"},
			})
		}
		return imageUploadError(c, err)
	}

	return c.JSON(http.StatusCreated, h.toDiaryResponse(c, diary))
}

// GetDiaries lists the user's diary entries
// @Summary List diary entries
// @Tags diaries
// @Produce json
// @Security BearerAuth
// @Success 200 {array} DiaryResponse
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /diaries [get]
func (h *DiaryHandler) GetDiaries(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	diaries, err := h.diaryService.GetByUser(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list diaries")
		return NewInternalError(c, "Failed to list diaries")
	}

	return c.JSON(http.StatusOK, h.toDiaryListResponse(c, diaries))
}

// GetDiariesByPeriod lists entries within a date range
// @Summary List diary entries by period
// @Tags diaries
// @Produce json
// @Security BearerAuth
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Success 200 {array} DiaryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /diaries/period [get]
func (h *DiaryHandler) GetDiariesByPeriod(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	start, err := time.Parse("2006-01-02", c.QueryParam("start"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "start", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}
	end, err := time.Parse("2006-01-02", c.QueryParam("end"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "end", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}
	// Include the whole end day
	end = end.Add(24*time.Hour - time.Nanosecond)

	if end.Before(start) {
		return NewValidationError(c, "End date must not be before start date", nil)
	}

	diaries, err := h.diaryService.GetByPeriod(c.Request().Context(), userID, start, end)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list diaries by period")
		return NewInternalError(c, "Failed to list diaries")
	}

	return c.JSON(http.StatusOK, h.toDiaryListResponse(c, diaries))
}

// GetDiary retrieves a single diary entry
// @Summary Get diary entry
// @Tags diaries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Diary ID"
// @Success 200 {object} DiaryResponse
// @Failure 401 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /diaries/{id} [get]
func (h *DiaryHandler) GetDiary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	diaryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid diary ID", nil)
	}

	diary, err := h.diaryService.GetByID(c.Request().Context(), userID, diaryID)
	if err != nil {
		return diaryError(c, err)
	}

	return c.JSON(http.StatusOK, h.toDiaryResponse(c, diary))
}

// UpdateDiary updates an entry's content
// @Summary Update diary entry
// @Tags diaries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Diary ID"
// @Param request body UpdateDiaryRequest true "Update request"
// @Success 200 {object} DiaryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /diaries/{id} [put]
func (h *DiaryHandler) UpdateDiary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	diaryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid diary ID", nil)
	}

	var req UpdateDiaryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	diary, err := h.diaryService.Update(c.Request().Context(), userID, diaryID, req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "content", Message: "Content must be non-empty and at most 10000 characters"},
			})
		}
		return diaryError(c, err)
	}

	return c.JSON(http.StatusOK, h.toDiaryResponse(c, diary))
}

// DeleteDiary removes a diary entry
// @Summary Delete diary entry
// @Tags diaries
// @Security BearerAuth
// @Param id path string true "Diary ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /diaries/{id} [delete]
func (h *DiaryHandler) DeleteDiary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	diaryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid diary ID", nil)
	}

	if err := h.diaryService.Delete(c.Request().Context(), userID, diaryID); err != nil {
		return diaryError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func diaryError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrDiaryNotFound):
		return NewNotFoundError(c, "Diary entry not found")
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, "Diary entry belongs to another user")
	default:
		log.Error().Err(err).Msg("Diary operation failed")
		return NewInternalError(c, "Diary operation failed")
	}
}
