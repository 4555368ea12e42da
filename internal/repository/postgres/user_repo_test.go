package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/caloria-app/caloria-backend/internal/domain"
)

func newUserRepoMock(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("Failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func userRows(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name",
		"oauth_provider", "oauth_provider_id", "profile_picture_url",
		"target_calories", "created_at", "updated_at",
	}).AddRow(
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.OAuthProvider, u.OAuthProviderID, u.ProfilePictureURL,
		u.TargetCalories, u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserRepositoryCreate(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	hash := "$2a$12$hash"
	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "a@x.com", &hash, (*string)(nil), (*string)(nil),
			(*string)(nil), (*string)(nil), (*string)(nil), (*int)(nil),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := repo.Create(context.Background(), &domain.User{
		Email:        "a@x.com",
		PasswordHash: &hash,
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

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "a@x.com", (*string)(nil), (*string)(nil), (*string)(nil),
			(*string)(nil), (*string)(nil), (*string)(nil), (*int)(nil),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`))

	_, err := repo.Create(context.Background(), &domain.User{Email: "a@x.com"})
	if !errors.Is(err, domain.ErrEmailAlreadyExists) {
		t.Errorf("Expected ErrEmailAlreadyExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	want := &domain.User{
		ID:        uuid.New(),
		Email:     "a@x.com",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("a@x.com").
		WillReturnRows(userRows(want))

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.ID != want.ID || got.Email != want.Email {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestUserRepositoryUpdateNotFound(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	u := &domain.User{ID: uuid.New(), Email: "a@x.com"}
	mock.ExpectExec("UPDATE users").
		WithArgs(u.Email, (*string)(nil), (*string)(nil), (*string)(nil),
			(*string)(nil), (*string)(nil), (*string)(nil), (*int)(nil),
			pgxmock.AnyArg(), u.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := repo.Update(context.Background(), u)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestUserRepositoryUpdateTargetCalories(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	target := 2000
	want := &domain.User{
		ID:             uuid.New(),
		Email:          "a@x.com",
		TargetCalories: &target,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	mock.ExpectQuery("UPDATE users SET target_calories").
		WithArgs(target, pgxmock.AnyArg(), want.ID).
		WillReturnRows(userRows(want))

	got, err := repo.UpdateTargetCalories(context.Background(), want.ID, target)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.TargetCalories == nil || *got.TargetCalories != target {
		t.Errorf("Expected target calories %d, got %v", target, got.TargetCalories)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
