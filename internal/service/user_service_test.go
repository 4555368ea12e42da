package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/testutil"
)

func TestGetUserInfo_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userService := NewUserService(userRepo)

	existing := &domain.User{ID: uuid.New(), Email: "a@x.com"}
	userRepo.AddUser(existing)

	user, err := userService.GetUserInfo(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Email != "a@x.com" {
		t.Errorf("Expected email a@x.com, got %s", user.Email)
	}
}

func TestGetUserInfo_NotFound(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userService := NewUserService(userRepo)

	_, err := userService.GetUserInfo(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateTargetCalories_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userService := NewUserService(userRepo)

	existing := &domain.User{ID: uuid.New(), Email: "a@x.com"}
	userRepo.AddUser(existing)

	user, err := userService.UpdateTargetCalories(context.Background(), existing.ID, 2000)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.TargetCalories == nil || *user.TargetCalories != 2000 {
		t.Errorf("Expected target calories 2000, got %v", user.TargetCalories)
	}
}

func TestUpdateTargetCalories_BelowMinimum(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userService := NewUserService(userRepo)

	existing := &domain.User{ID: uuid.New(), Email: "a@x.com"}
	userRepo.AddUser(existing)

	_, err := userService.UpdateTargetCalories(context.Background(), existing.ID, 499)
	if !errors.Is(err, domain.ErrInvalidTargetCalories) {
		t.Errorf("Expected ErrInvalidTargetCalories, got %v", err)
	}

	// Record unchanged
	user, _ := userRepo.GetByID(context.Background(), existing.ID)
	if user.TargetCalories != nil {
		t.Error("Expected target calories to remain unset")
	}
}

func TestUpdateTargetCalories_UserNotFound(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userService := NewUserService(userRepo)

	_, err := userService.UpdateTargetCalories(context.Background(), uuid.New(), 1800)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
