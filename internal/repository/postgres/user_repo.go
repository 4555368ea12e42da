package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caloria-app/caloria-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, oauth_provider, oauth_provider_id, profile_picture_url, target_calories, created_at, updated_at`

// Create inserts a new user. The caller does not set ID or timestamps.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	created := *user
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		created.ID,
		created.Email,
		created.PasswordHash,
		created.FirstName,
		created.LastName,
		created.OAuthProvider,
		created.OAuthProviderID,
		created.ProfilePictureURL,
		created.TargetCalories,
		created.CreatedAt,
		created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by their email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

// Update overwrites an existing user row with the given value
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	updated := *user
	updated.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4,
		    oauth_provider = $5, oauth_provider_id = $6, profile_picture_url = $7,
		    target_calories = $8, updated_at = $9
		WHERE id = $10`

	ct, err := r.db.Exec(ctx, query,
		updated.Email,
		updated.PasswordHash,
		updated.FirstName,
		updated.LastName,
		updated.OAuthProvider,
		updated.OAuthProviderID,
		updated.ProfilePictureURL,
		updated.TargetCalories,
		updated.UpdatedAt,
		updated.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, domain.ErrUserNotFound
	}

	return &updated, nil
}

// UpdateTargetCalories updates only the daily calorie target
func (r *UserRepository) UpdateTargetCalories(ctx context.Context, id uuid.UUID, targetCalories int) (*domain.User, error) {
	query := `
		UPDATE users
		SET target_calories = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	return r.scanUser(ctx, query, targetCalories, time.Now().UTC(), id)
}

// scanUser executes a query expected to return a single user row
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.ProfilePictureURL,
		&u.TargetCalories,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}
