package domain

import "context"

// OAuthIdentity is a normalized identity produced by a provider adapter from
// provider-specific callback data. It is never persisted directly; the
// authentication service merges it into a User.
type OAuthIdentity struct {
	Provider          string
	ProviderUserID    string
	Email             string
	FirstName         *string
	LastName          *string
	ProfilePictureURL *string
}

// OAuthProvider validates provider callback credentials and extracts a
// normalized identity. Adapters perform no persistence and make no account
// linking decisions.
type OAuthProvider interface {
	// Name returns the provider key used for registry dispatch, e.g. "google".
	Name() string
	// Validate builds an OAuthIdentity from the provider callback data.
	// Returns ErrIdentityExtraction if no usable email can be extracted.
	Validate(ctx context.Context, accessToken, refreshToken string, rawProfile map[string]any) (*OAuthIdentity, error)
}
