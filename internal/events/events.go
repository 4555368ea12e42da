package events

import (
	"github.com/google/uuid"

	"github.com/caloria-app/caloria-backend/internal/domain"
)

// Event names used on the bus.
const (
	FoodAnalyzedName = "food.analyzed"
	DiaryCreatedName = "diary.created"
	DiaryUpdatedName = "diary.updated"
	DiaryDeletedName = "diary.deleted"
)

// FoodAnalyzed is published after a meal photo has been analyzed.
type FoodAnalyzed struct {
	UserID      uuid.UUID
	ImageURL    string
	Description string
	Analysis    domain.FoodAnalysis
}

func (FoodAnalyzed) EventName() string { return FoodAnalyzedName }

// DiaryCreated is published after a diary entry is persisted.
type DiaryCreated struct {
	UserID uuid.UUID
	Diary  domain.Diary
}

func (DiaryCreated) EventName() string { return DiaryCreatedName }

// DiaryUpdated is published after a diary entry is modified.
type DiaryUpdated struct {
	UserID uuid.UUID
	Diary  domain.Diary
}

func (DiaryUpdated) EventName() string { return DiaryUpdatedName }

// DiaryDeleted is published after a diary entry is removed.
type DiaryDeleted struct {
	UserID  uuid.UUID
	DiaryID uuid.UUID
}

func (DiaryDeleted) EventName() string { return DiaryDeletedName }
