package websocket

import (
	"errors"

	"github.com/google/uuid"

	"github.com/caloria-app/caloria-backend/internal/auth"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// TokenValidator validates access tokens for WebSocket connections.
// Browsers cannot set an Authorization header on the upgrade request, so the
// token arrives as a query parameter and is validated here.
type TokenValidator struct {
	tokens *auth.TokenManager
}

// NewTokenValidator creates a new TokenValidator
func NewTokenValidator(tokens *auth.TokenManager) *TokenValidator {
	return &TokenValidator{tokens: tokens}
}

// ValidateToken validates an access token and returns the user ID it carries
func (v *TokenValidator) ValidateToken(token string) (uuid.UUID, error) {
	claims, err := v.tokens.Verify(token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}
