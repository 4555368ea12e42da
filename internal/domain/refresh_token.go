package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the single active refresh credential for a user. The store
// keeps at most one row per user; issuing a new token replaces the old one.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsExpired reports whether the token is past its expiry at the given time.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// TokenPair holds a freshly signed access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokenRepository defines the interface for refresh token persistence.
// All operations are keyed by user ID: the schema's unique constraint on
// user_id is what enforces the single-active-token invariant.
type RefreshTokenRepository interface {
	// Upsert stores the token for the user, replacing any existing row.
	Upsert(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	FindByUser(ctx context.Context, userID uuid.UUID) (*RefreshToken, error)
	// DeleteByUser removes the user's token. Deleting a missing row is not an error.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
