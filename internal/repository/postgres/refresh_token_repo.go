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

// RefreshTokenRepository implements domain.RefreshTokenRepository using
// PostgreSQL. The refresh_tokens table carries a unique constraint on
// user_id, so the upsert structurally enforces one active token per user.
type RefreshTokenRepository struct {
	db DB
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository
func NewRefreshTokenRepository(db DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Upsert stores the refresh token for the user, replacing any existing row.
func (r *RefreshTokenRepository) Upsert(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`

	_, err := r.db.Exec(ctx, query, uuid.New(), userID, token, expiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert refresh token: %w", err)
	}

	return nil
}

// FindByUser retrieves the user's stored refresh token, if any.
func (r *RefreshTokenRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM refresh_tokens
		WHERE user_id = $1`

	var rt domain.RefreshToken
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&rt.ID,
		&rt.UserID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}

	return &rt, nil
}

// DeleteByUser removes the user's refresh token. Deleting a row that does not
// exist is not an error (logout is idempotent).
func (r *RefreshTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	return nil
}
