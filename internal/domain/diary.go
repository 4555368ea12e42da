package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Diary represents a single diary entry with an optional attached food image
// and the calorie data captured for it.
type Diary struct {
	ID               uuid.UUID          `json:"id"`
	UserID           uuid.UUID          `json:"userId"`
	Content          string             `json:"content"`
	ImageURL         *string            `json:"imageUrl,omitempty"`
	TotalCalories    *float64           `json:"totalCalories,omitempty"`
	CalorieBreakdown map[string]float64 `json:"calorieBreakdown,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// Validate checks the entry's content constraints.
func (d *Diary) Validate() error {
	if strings.TrimSpace(d.Content) == "" {
		return ErrInvalidInput
	}
	if len(d.Content) > MaxDiaryContentLen {
		return ErrInvalidInput
	}
	return nil
}

// DiaryRepository defines the interface for diary persistence operations
type DiaryRepository interface {
	Create(ctx context.Context, diary *Diary) (*Diary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Diary, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*Diary, error)
	GetByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*Diary, error)
	Update(ctx context.Context, diary *Diary) (*Diary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
