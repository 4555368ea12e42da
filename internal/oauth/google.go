// Package oauth contains the external identity provider adapters and the
// registry the authentication service dispatches on.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/caloria-app/caloria-backend/internal/config"
	"github.com/caloria-app/caloria-backend/internal/domain"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider implements domain.OAuthProvider for Google sign-in using the
// Authorization Code flow. The code-for-token exchange happens server to
// server; the provider access token never reaches the browser.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider creates a GoogleProvider with the given credentials.
func NewGoogleProvider(cfg config.GoogleOAuthConfig) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// Name implements domain.OAuthProvider
func (p *GoogleProvider) Name() string { return "google" }

// AuthURL returns the Google authorization URL for the given CSRF state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for Google tokens and the raw
// userinfo profile. The returned values feed Validate.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (accessToken, refreshToken string, rawProfile map[string]any, err error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", "", nil, fmt.Errorf("oauth: exchanging code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return "", "", nil, fmt.Errorf("oauth: fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", nil, fmt.Errorf("oauth: userinfo returned status %d", resp.StatusCode)
	}

	var profile map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", "", nil, fmt.Errorf("oauth: decoding userinfo: %w", err)
	}

	return token.AccessToken, token.RefreshToken, profile, nil
}

// Validate implements domain.OAuthProvider. rawProfile is the Google userinfo
// payload: id, email, given_name, family_name, picture.
func (p *GoogleProvider) Validate(ctx context.Context, accessToken, refreshToken string, rawProfile map[string]any) (*domain.OAuthIdentity, error) {
	id, _ := rawProfile["id"].(string)
	email, _ := rawProfile["email"].(string)
	if id == "" || email == "" {
		return nil, domain.ErrIdentityExtraction
	}

	identity := &domain.OAuthIdentity{
		Provider:       p.Name(),
		ProviderUserID: id,
		Email:          email,
	}
	if v, ok := rawProfile["given_name"].(string); ok && v != "" {
		identity.FirstName = &v
	}
	if v, ok := rawProfile["family_name"].(string); ok && v != "" {
		identity.LastName = &v
	}
	if v, ok := rawProfile["picture"].(string); ok && v != "" {
		identity.ProfilePictureURL = &v
	}

	return identity, nil
}
