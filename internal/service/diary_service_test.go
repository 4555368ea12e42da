package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/events"
	"github.com/caloria-app/caloria-backend/internal/testutil"
)

type diaryFixture struct {
	diaryRepo *testutil.MockDiaryRepository
	store     *testutil.MockImageStore
	bus       *events.Bus
	service   *DiaryService
}

func newDiaryFixture(t *testing.T) *diaryFixture {
	t.Helper()
	diaryRepo := testutil.NewMockDiaryRepository()
	store := testutil.NewMockImageStore()
	bus := events.NewBus(zerolog.Nop())
	service := NewDiaryService(diaryRepo, NewImageService(store), bus)
	service.BindEventBus(bus)

	return &diaryFixture{
		diaryRepo: diaryRepo,
		store:     store,
		bus:       bus,
		service:   service,
	}
}

// makeTestJPEG encodes a blank image of the given size
func makeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestDiaryCreate_WithoutImage(t *testing.T) {
	f := newDiaryFixture(t)
	userID := uuid.New()

	var published bool
	f.bus.Subscribe(events.DiaryCreatedName, func(ctx context.Context, event events.Event) error {
		published = true
		return nil
	})

	diary, err := f.service.Create(context.Background(), userID, "Oatmeal with berries", nil, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if diary.ID == uuid.Nil {
		t.Error("Expected generated diary ID")
	}
	if diary.ImageURL != nil {
		t.Error("Expected no image URL")
	}
	if !published {
		t.Error("Expected diary.created event")
	}
}

func TestDiaryCreate_WithImage(t *testing.T) {
	f := newDiaryFixture(t)
	userID := uuid.New()

	diary, err := f.service.Create(context.Background(), userID, "Lunch", makeTestJPEG(t, 100, 100), "lunch.jpg")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if diary.ImageURL == nil {
		t.Fatal("Expected image URL to be set")
	}
	if _, ok := f.store.Objects[*diary.ImageURL]; !ok {
		t.Error("Expected image to be uploaded to storage")
	}
}

func TestDiaryCreate_EmptyContent(t *testing.T) {
	f := newDiaryFixture(t)

	_, err := f.service.Create(context.Background(), uuid.New(), "", nil, "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestDiaryGetByID_OwnershipEnforced(t *testing.T) {
	f := newDiaryFixture(t)
	owner := uuid.New()

	diary, err := f.service.Create(context.Background(), owner, "Dinner", nil, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := f.service.GetByID(context.Background(), owner, diary.ID); err != nil {
		t.Errorf("Expected owner to read the entry, got %v", err)
	}

	_, err = f.service.GetByID(context.Background(), uuid.New(), diary.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for other user, got %v", err)
	}
}

func TestDiaryGetByPeriod(t *testing.T) {
	f := newDiaryFixture(t)
	userID := uuid.New()

	now := time.Now().UTC()
	inRange := &domain.Diary{ID: uuid.New(), UserID: userID, Content: "Lunch", CreatedAt: now}
	outOfRange := &domain.Diary{ID: uuid.New(), UserID: userID, Content: "Old lunch", CreatedAt: now.Add(-48 * time.Hour)}
	f.diaryRepo.AddDiary(inRange)
	f.diaryRepo.AddDiary(outOfRange)

	diaries, err := f.service.GetByPeriod(context.Background(), userID, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(diaries) != 1 || diaries[0].ID != inRange.ID {
		t.Errorf("Expected only the in-range entry, got %d entries", len(diaries))
	}
}

func TestDiaryUpdate(t *testing.T) {
	f := newDiaryFixture(t)
	userID := uuid.New()

	diary, err := f.service.Create(context.Background(), userID, "Before", nil, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var published bool
	f.bus.Subscribe(events.DiaryUpdatedName, func(ctx context.Context, event events.Event) error {
		published = true
		return nil
	})

	updated, err := f.service.Update(context.Background(), userID, diary.ID, "After")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Content != "After" {
		t.Errorf("Expected updated content, got %s", updated.Content)
	}
	if !published {
		t.Error("Expected diary.updated event")
	}

	_, err = f.service.Update(context.Background(), uuid.New(), diary.ID, "Hijack")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for other user, got %v", err)
	}
}

func TestDiaryDelete_RemovesImage(t *testing.T) {
	f := newDiaryFixture(t)
	userID := uuid.New()

	diary, err := f.service.Create(context.Background(), userID, "Lunch", makeTestJPEG(t, 100, 100), "lunch.jpg")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	imagePath := *diary.ImageURL

	var published bool
	f.bus.Subscribe(events.DiaryDeletedName, func(ctx context.Context, event events.Event) error {
		published = true
		return nil
	})

	if err := f.service.Delete(context.Background(), userID, diary.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := f.service.GetByID(context.Background(), userID, diary.ID); !errors.Is(err, domain.ErrDiaryNotFound) {
		t.Errorf("Expected ErrDiaryNotFound after delete, got %v", err)
	}
	if _, ok := f.store.Objects[imagePath]; ok {
		t.Error("Expected stored image to be removed")
	}
	if !published {
		t.Error("Expected diary.deleted event")
	}
}

func TestDiaryDelete_NotFound(t *testing.T) {
	f := newDiaryFixture(t)

	err := f.service.Delete(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrDiaryNotFound) {
		t.Errorf("Expected ErrDiaryNotFound, got %v", err)
	}
}

func TestFoodAnalyzedCreatesDiaryEntry(t *testing.T) {
	f := newDiaryFixture(t)
	userID := uuid.New()

	f.bus.Publish(context.Background(), events.FoodAnalyzed{
		UserID:      userID,
		ImageURL:    "users/x/food/meal.jpg",
		Description: "chicken and rice",
		Analysis: domain.FoodAnalysis{
			Ingredients:   []string{"chicken", "rice"},
			TotalCalories: 650,
			Breakdown:     map[string]float64{"chicken": 350, "rice": 300},
		},
	})

	diaries, err := f.service.GetByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(diaries) != 1 {
		t.Fatalf("Expected 1 diary entry from analysis, got %d", len(diaries))
	}

	entry := diaries[0]
	if entry.Content != "chicken and rice" {
		t.Errorf("Expected description as content, got %s", entry.Content)
	}
	if entry.TotalCalories == nil || *entry.TotalCalories != 650 {
		t.Errorf("Expected 650 total calories, got %v", entry.TotalCalories)
	}
	if entry.ImageURL == nil || *entry.ImageURL != "users/x/food/meal.jpg" {
		t.Errorf("Expected image URL from event, got %v", entry.ImageURL)
	}
	if entry.CalorieBreakdown["rice"] != 300 {
		t.Errorf("Expected rice 300, got %v", entry.CalorieBreakdown["rice"])
	}
}
