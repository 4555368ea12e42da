package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/caloria-app/caloria-backend/internal/auth"
	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/oauth"
)

// AuthService handles authentication-related business logic: credential
// verification, token issuance and rotation, and OAuth account linking.
type AuthService struct {
	userRepo    domain.UserRepository
	refreshRepo domain.RefreshTokenRepository
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenManager
	providers   *oauth.Registry
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo domain.UserRepository,
	refreshRepo domain.RefreshTokenRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenManager,
	providers *oauth.Registry,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		hasher:      hasher,
		tokens:      tokens,
		providers:   providers,
	}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User   *domain.User
	Tokens domain.TokenPair
}

// Register creates a new password-based user and issues an initial token pair
func (s *AuthService) Register(ctx context.Context, email, password string, firstName, lastName *string) (*AuthResult, error) {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: &hash,
		FirstName:    firstName,
		LastName:     lastName,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create user")
		return nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User registered")
	return &AuthResult{User: user, Tokens: pair}, nil
}

// Login verifies the email/password pair and issues a fresh token pair.
// Missing user, OAuth-only account and wrong password all collapse into
// ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.HasPassword() || !s.hasher.Verify(password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User logged in")
	return &AuthResult{User: user, Tokens: pair}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The token is
// single-use: the stored row must match the presented token exactly and is
// deleted before the replacement is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return domain.TokenPair{}, domain.ErrInvalidRefreshToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return domain.TokenPair{}, domain.ErrInvalidRefreshToken
	}

	stored, err := s.refreshRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenNotFound) {
			return domain.TokenPair{}, domain.ErrInvalidRefreshToken
		}
		return domain.TokenPair{}, err
	}
	if stored.Token != refreshToken || stored.IsExpired(time.Now()) {
		return domain.TokenPair{}, domain.ErrInvalidRefreshToken
	}

	// Rotation: invalidate before reissue so a crash between the two steps
	// never leaves two live refresh tokens for the same user.
	if err := s.refreshRepo.DeleteByUser(ctx, userID); err != nil {
		return domain.TokenPair{}, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.TokenPair{}, domain.ErrInvalidRefreshToken
		}
		return domain.TokenPair{}, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return pair, nil
}

// Logout deletes the user's stored refresh token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.refreshRepo.DeleteByUser(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete refresh token")
		return err
	}
	log.Info().Str("user_id", userID.String()).Msg("User logged out")
	return nil
}

// OAuthLogin signs a user in with an external provider. An unknown email
// creates a new account; a known email without OAuth fields gets the provider
// identity linked in place (account merge).
func (s *AuthService) OAuthLogin(ctx context.Context, provider, accessToken, refreshToken string, rawProfile map[string]any) (*AuthResult, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return nil, err
	}

	identity, err := p.Validate(ctx, accessToken, refreshToken, rawProfile)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, identity.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user, err = s.createFromIdentity(ctx, identity)
		if err != nil {
			return nil, err
		}
		log.Info().Str("user_id", user.ID.String()).Str("provider", provider).Msg("OAuth signup via login")
	} else if !user.IsOAuthLinked() {
		linked := user.WithOAuthIdentity(identity)
		user, err = s.userRepo.Update(ctx, &linked)
		if err != nil {
			return nil, err
		}
		log.Info().Str("user_id", user.ID.String()).Str("provider", provider).Msg("Linked OAuth identity to existing account")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Tokens: pair}, nil
}

// OAuthSignup creates a new account from a provider identity. Unlike
// OAuthLogin it never takes over an existing account: a known email fails
// with ErrEmailAlreadyExists.
func (s *AuthService) OAuthSignup(ctx context.Context, identity *domain.OAuthIdentity) (*AuthResult, error) {
	_, err := s.userRepo.GetByEmail(ctx, identity.Email)
	if err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user, err := s.createFromIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Str("provider", identity.Provider).Msg("OAuth signup")
	return &AuthResult{User: user, Tokens: pair}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) createFromIdentity(ctx context.Context, identity *domain.OAuthIdentity) (*domain.User, error) {
	return s.userRepo.Create(ctx, &domain.User{
		Email:             identity.Email,
		FirstName:         identity.FirstName,
		LastName:          identity.LastName,
		OAuthProvider:     &identity.Provider,
		OAuthProviderID:   &identity.ProviderUserID,
		ProfilePictureURL: identity.ProfilePictureURL,
	})
}

// issueTokens signs a fresh access/refresh pair and upserts the refresh row,
// leaving exactly one stored refresh token for the user.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (domain.TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return domain.TokenPair{}, err
	}

	expiresAt := time.Now().Add(s.tokens.RefreshTTL()).UTC()
	if err := s.refreshRepo.Upsert(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
