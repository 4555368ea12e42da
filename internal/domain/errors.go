package domain

import "errors"

// Domain errors
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
	ErrUnsupportedProvider   = errors.New("unsupported oauth provider")
	ErrIdentityExtraction    = errors.New("could not extract identity from provider profile")
	ErrUserNotFound          = errors.New("user not found")
	ErrDiaryNotFound         = errors.New("diary not found")
	ErrRefreshTokenNotFound  = errors.New("refresh token not found")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidTargetCalories = errors.New("target calories must be at least 500")
)

// Validation constants
const (
	MinTargetCalories  = 500
	MaxDiaryContentLen = 10000
)
