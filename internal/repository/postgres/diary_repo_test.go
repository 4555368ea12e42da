package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/caloria-app/caloria-backend/internal/domain"
)

func newDiaryRepoMock(t *testing.T) (pgxmock.PgxPoolIface, *DiaryRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("Failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewDiaryRepository(mock)
}

func diaryRows(diaries ...*domain.Diary) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "user_id", "content", "image_url", "total_calories", "calorie_breakdown", "created_at", "updated_at"})
	for _, d := range diaries {
		var breakdown []byte
		if d.CalorieBreakdown != nil {
			breakdown, _ = json.Marshal(d.CalorieBreakdown)
		}
		rows.AddRow(d.ID, d.UserID, d.Content, d.ImageURL, d.TotalCalories, breakdown, d.CreatedAt, d.UpdatedAt)
	}
	return rows
}

func TestDiaryRepositoryCreate(t *testing.T) {
	mock, repo := newDiaryRepoMock(t)

	userID := uuid.New()
	mock.ExpectExec("INSERT INTO diaries").
		WithArgs(pgxmock.AnyArg(), userID, "oatmeal with berries", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := repo.Create(context.Background(), &domain.Diary{
		UserID:  userID,
		Content: "oatmeal with berries",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("Expected generated ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDiaryRepositoryCreateWithBreakdown(t *testing.T) {
	mock, repo := newDiaryRepoMock(t)

	userID := uuid.New()
	total := 420.0
	mock.ExpectExec("INSERT INTO diaries").
		WithArgs(pgxmock.AnyArg(), userID, "chicken and rice", pgxmock.AnyArg(), &total, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	_, err := repo.Create(context.Background(), &domain.Diary{
		UserID:        userID,
		Content:       "chicken and rice",
		TotalCalories: &total,
		CalorieBreakdown: map[string]float64{
			"chicken": 220,
			"rice":    200,
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDiaryRepositoryGetByID(t *testing.T) {
	mock, repo := newDiaryRepoMock(t)

	want := &domain.Diary{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Content:          "grilled salmon",
		CalorieBreakdown: map[string]float64{"salmon": 350},
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	mock.ExpectQuery("SELECT (.+) FROM diaries WHERE id").
		WithArgs(want.ID).
		WillReturnRows(diaryRows(want))

	got, err := repo.GetByID(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Content != want.Content {
		t.Errorf("Expected content %q, got %q", want.Content, got.Content)
	}
	if got.CalorieBreakdown["salmon"] != 350 {
		t.Errorf("Expected breakdown to round-trip, got %v", got.CalorieBreakdown)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDiaryRepositoryGetByIDNotFound(t *testing.T) {
	mock, repo := newDiaryRepoMock(t)

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM diaries WHERE id").
		WithArgs(id).
		WillReturnRows(diaryRows())

	_, err := repo.GetByID(context.Background(), id)
	if !errors.Is(err, domain.ErrDiaryNotFound) {
		t.Errorf("Expected ErrDiaryNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDiaryRepositoryGetByPeriod(t *testing.T) {
	mock, repo := newDiaryRepoMock(t)

	userID := uuid.New()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	entry := &domain.Diary{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   "lunch",
		CreatedAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	mock.ExpectQuery("SELECT (.+) FROM diaries").
		WithArgs(userID, start, end).
		WillReturnRows(diaryRows(entry))

	got, err := repo.GetByPeriod(context.Background(), userID, start, end)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(got))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDiaryRepositoryUpdateNotFound(t *testing.T) {
	mock, repo := newDiaryRepoMock(t)

	diary := &domain.Diary{
		ID:      uuid.New(),
		Content: "updated content",
	}
	mock.ExpectExec("UPDATE diaries").
		WithArgs(diary.Content, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), diary.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := repo.Update(context.Background(), diary)
	if !errors.Is(err, domain.ErrDiaryNotFound) {
		t.Errorf("Expected ErrDiaryNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDiaryRepositoryDelete(t *testing.T) {
	mock, repo := newDiaryRepoMock(t)

	id := uuid.New()
	mock.ExpectExec("DELETE FROM diaries").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDiaryRepositoryDeleteNotFound(t *testing.T) {
	mock, repo := newDiaryRepoMock(t)

	id := uuid.New()
	mock.ExpectExec("DELETE FROM diaries").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), id)
	if !errors.Is(err, domain.ErrDiaryNotFound) {
		t.Errorf("Expected ErrDiaryNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
