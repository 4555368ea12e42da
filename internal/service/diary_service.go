package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/events"
)

// DiaryService handles meal diary business logic
type DiaryService struct {
	diaryRepo domain.DiaryRepository
	images    *ImageService
	bus       *events.Bus
}

// NewDiaryService creates a new DiaryService
func NewDiaryService(diaryRepo domain.DiaryRepository, images *ImageService, bus *events.Bus) *DiaryService {
	return &DiaryService{
		diaryRepo: diaryRepo,
		images:    images,
		bus:       bus,
	}
}

// BindEventBus subscribes the service to analysis events so analyzed meals
// land in the diary automatically.
func (s *DiaryService) BindEventBus(bus *events.Bus) {
	bus.Subscribe(events.FoodAnalyzedName, s.handleFoodAnalyzed)
}

// Create stores a new diary entry, uploading the attached image if present
func (s *DiaryService) Create(ctx context.Context, userID uuid.UUID, content string, imageData []byte, filename string) (*domain.Diary, error) {
	diary := &domain.Diary{
		UserID:  userID,
		Content: content,
	}
	if err := diary.Validate(); err != nil {
		return nil, err
	}

	if len(imageData) > 0 {
		path, err := s.images.CompressAndUpload(ctx, userID, "diary", imageData, filename)
		if err != nil {
			return nil, err
		}
		diary.ImageURL = &path
	}

	created, err := s.diaryRepo.Create(ctx, diary)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create diary entry")
		return nil, err
	}

	s.bus.Publish(ctx, events.DiaryCreated{UserID: userID, Diary: *created})
	return created, nil
}

// GetByID retrieves a diary entry, enforcing ownership
func (s *DiaryService) GetByID(ctx context.Context, userID, diaryID uuid.UUID) (*domain.Diary, error) {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	if diary.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return diary, nil
}

// GetByUser retrieves all diary entries for a user
func (s *DiaryService) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Diary, error) {
	return s.diaryRepo.GetByUser(ctx, userID)
}

// GetByPeriod retrieves a user's entries within [start, end]
func (s *DiaryService) GetByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Diary, error) {
	return s.diaryRepo.GetByPeriod(ctx, userID, start, end)
}

// Update changes the content of an existing entry, enforcing ownership
func (s *DiaryService) Update(ctx context.Context, userID, diaryID uuid.UUID, content string) (*domain.Diary, error) {
	diary, err := s.GetByID(ctx, userID, diaryID)
	if err != nil {
		return nil, err
	}

	updated := *diary
	updated.Content = content
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.diaryRepo.Update(ctx, &updated)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.DiaryUpdated{UserID: userID, Diary: *saved})
	return saved, nil
}

// Delete removes an entry and its stored image, enforcing ownership
func (s *DiaryService) Delete(ctx context.Context, userID, diaryID uuid.UUID) error {
	diary, err := s.GetByID(ctx, userID, diaryID)
	if err != nil {
		return err
	}

	if err := s.diaryRepo.Delete(ctx, diaryID); err != nil {
		return err
	}

	if diary.ImageURL != nil {
		// Best effort; the entry itself is already gone
		if err := s.images.Delete(ctx, *diary.ImageURL); err != nil {
			log.Warn().Err(err).Str("diary_id", diaryID.String()).Msg("Failed to delete diary image")
		}
	}

	s.bus.Publish(ctx, events.DiaryDeleted{UserID: userID, DiaryID: diaryID})
	return nil
}

// ImageURL returns a temporary download URL for a diary image
func (s *DiaryService) ImageURL(ctx context.Context, diary *domain.Diary) (string, error) {
	if diary.ImageURL == nil {
		return "", nil
	}
	return s.images.PresignedURL(ctx, *diary.ImageURL, 15*time.Minute)
}

// handleFoodAnalyzed records an analyzed meal as a diary entry
func (s *DiaryService) handleFoodAnalyzed(ctx context.Context, event events.Event) error {
	e := event.(events.FoodAnalyzed)

	diary := &domain.Diary{
		UserID:           e.UserID,
		Content:          e.Description,
		TotalCalories:    &e.Analysis.TotalCalories,
		CalorieBreakdown: e.Analysis.Breakdown,
	}
	if e.ImageURL != "" {
		imageURL := e.ImageURL
		diary.ImageURL = &imageURL
	}

	created, err := s.diaryRepo.Create(ctx, diary)
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.DiaryCreated{UserID: e.UserID, Diary: *created})
	return nil
}
