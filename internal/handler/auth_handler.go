package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/caloria-app/caloria-backend/internal/domain"
	"github.com/caloria-app/caloria-backend/internal/middleware"
	"github.com/caloria-app/caloria-backend/internal/oauth"
	"github.com/caloria-app/caloria-backend/internal/service"
)

const (
	oauthStateCookie  = "oauth_state"
	oauthIntentCookie = "oauth_intent"
	minPasswordLen    = 8
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	google      *oauth.GoogleProvider
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, google *oauth.GoogleProvider) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		google:      google,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPairResponse represents a freshly issued token pair
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse represents the response for register/login/oauth operations
type AuthResponse struct {
	User   UserResponse      `json:"user"`
	Tokens TokenPairResponse `json:"tokens"`
}

func toAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		User: toUserResponse(result.User),
		Tokens: TokenPairResponse{
			AccessToken:  result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
		},
	}
}

func validateCredentials(email, password string) []ValidationError {
	var errs []ValidationError
	if email == "" || !strings.Contains(email, "@") {
		errs = append(errs, ValidationError{Field: "email", Message: "A valid email is required"})
	}
	if len(password) < minPasswordLen {
		errs = append(errs, ValidationError{Field: "password", Message: "Password must be at least 8 characters"})
	}
	return errs
}

// Register creates a new password-based account
// @Summary Register a new user
// @Description Creates a user with email/password credentials and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if errs := validateCredentials(req.Email, req.Password); len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	result, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return NewConflictError(c, "Email already registered")
		}
		log.Error().Err(err).Msg("Registration failed")
		return NewInternalError(c, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, toAuthResponse(result))
}

// Login authenticates with email and password
// @Summary Log in with email and password
// @Description Verifies credentials and returns a fresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.Email == "" || req.Password == "" {
		return NewValidationError(c, "Email and password are required", nil)
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid email or password")
		}
		log.Error().Err(err).Msg("Login failed")
		return NewInternalError(c, "Failed to log in")
	}

	return c.JSON(http.StatusOK, toAuthResponse(result))
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Description Rotates the refresh token: the presented token is invalidated and a new pair is issued
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh request"
// @Success 200 {object} TokenPairResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.RefreshToken == "" {
		return NewValidationError(c, "Refresh token is required", nil)
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRefreshToken) {
			return NewUnauthorizedError(c, "Invalid refresh token")
		}
		log.Error().Err(err).Msg("Token refresh failed")
		return NewInternalError(c, "Failed to refresh tokens")
	}

	return c.JSON(http.StatusOK, TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// LogoutResponse represents the response from logout
type LogoutResponse struct {
	Message string `json:"message"`
}

// Logout invalidates the user's refresh token
// @Summary Log out
// @Description Deletes the stored refresh token for the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LogoutResponse
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
		return NewInternalError(c, "Failed to log out")
	}

	return c.JSON(http.StatusOK, LogoutResponse{Message: "Logged out successfully"})
}

// Me returns the current authenticated user
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.authService.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return NewNotFoundError(c, "User not found")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// GoogleRedirect starts the Google OAuth authorization code flow
// @Summary Redirect to Google sign-in
// @Description Redirects the browser to Google's consent screen. Pass intent=signup to create a new account only
// @Tags auth
// @Param intent query string false "login (default) or signup"
// @Success 302
// @Router /auth/google [get]
func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	intent := c.QueryParam("intent")
	if intent != "signup" {
		intent = "login"
	}
	c.SetCookie(&http.Cookie{
		Name:     oauthIntentCookie,
		Value:    intent,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, h.google.AuthURL(state))
}

// GoogleCallback completes the Google OAuth flow
// @Summary Google OAuth callback
// @Description Exchanges the authorization code, signs the user in (auto-linking by email) or signs them up, and returns a token pair
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "CSRF state"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return NewValidationError(c, "Missing code or state", nil)
	}

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		return NewUnauthorizedError(c, "Invalid OAuth state")
	}

	accessToken, refreshToken, profile, err := h.google.Exchange(c.Request().Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("Google code exchange failed")
		return NewUnauthorizedError(c, "Google authentication failed")
	}

	intent := "login"
	if intentCookie, err := c.Cookie(oauthIntentCookie); err == nil {
		intent = intentCookie.Value
	}

	var result *service.AuthResult
	if intent == "signup" {
		identity, err := h.google.Validate(c.Request().Context(), accessToken, refreshToken, profile)
		if err != nil {
			return NewUnauthorizedError(c, "Could not extract identity from Google profile")
		}
		result, err = h.authService.OAuthSignup(c.Request().Context(), identity)
		if err != nil {
			if errors.Is(err, domain.ErrEmailAlreadyExists) {
				return NewConflictError(c, "Email already registered")
			}
			log.Error().Err(err).Msg("OAuth signup failed")
			return NewInternalError(c, "Failed to sign up")
		}
	} else {
		result, err = h.authService.OAuthLogin(c.Request().Context(), h.google.Name(), accessToken, refreshToken, profile)
		if err != nil {
			if errors.Is(err, domain.ErrIdentityExtraction) {
				return NewUnauthorizedError(c, "Could not extract identity from Google profile")
			}
			log.Error().Err(err).Msg("OAuth login failed")
			return NewInternalError(c, "Failed to log in")
		}
	}

	return c.JSON(http.StatusOK, toAuthResponse(result))
}
