package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system. PasswordHash is nil for accounts
// created through an OAuth provider that never set a password; OAuthProvider
// and OAuthProviderID are nil for password-only accounts. A valid user always
// has at least one of the two credential kinds.
type User struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      *string   `json:"-"`
	FirstName         *string   `json:"firstName"`
	LastName          *string   `json:"lastName"`
	OAuthProvider     *string   `json:"oauthProvider,omitempty"`
	OAuthProviderID   *string   `json:"-"`
	ProfilePictureURL *string   `json:"profilePictureUrl,omitempty"`
	TargetCalories    *int      `json:"targetCalories,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsOAuthLinked reports whether the user has an OAuth identity attached.
func (u *User) IsOAuthLinked() bool {
	return u.OAuthProvider != nil && u.OAuthProviderID != nil
}

// WithOAuthIdentity returns a copy of the user with the OAuth fields and
// profile picture populated from the given identity. The receiver is not
// modified; the caller passes the returned value to UserRepository.Update.
func (u User) WithOAuthIdentity(identity *OAuthIdentity) User {
	provider := identity.Provider
	providerID := identity.ProviderUserID
	u.OAuthProvider = &provider
	u.OAuthProviderID = &providerID
	if identity.ProfilePictureURL != nil {
		u.ProfilePictureURL = identity.ProfilePictureURL
	}
	return u
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	UpdateTargetCalories(ctx context.Context, id uuid.UUID, targetCalories int) (*User, error)
}
