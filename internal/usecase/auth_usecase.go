// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the opaque refresh token presented by the client.
type RefreshInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token whose session should end.
type LogoutInput struct {
	RefreshToken string
}

// GoogleAuthURLInput defines the parameters of the Google consent screen URL.
type GoogleAuthURLInput struct {
	RedirectURI string
	State       string
}

// GoogleCallbackInput carries the authorization code returned by Google.
type GoogleCallbackInput struct {
	Code        string
	RedirectURI string
}

// GoogleIDTokenInput carries an ID token obtained through Google Sign-In on the client.
type GoogleIDTokenInput struct {
	IDToken string
}

// --- Output DTOs ---

// TokenPairOutput is returned by every flow that opens a new session.
type TokenPairOutput struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // Access token lifetime in seconds
}

// AccessTokenOutput is returned by the refresh flow. The refresh token is not rotated.
type AccessTokenOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// GoogleAuthURLOutput holds the consent screen URL the client should open.
type GoogleAuthURLOutput struct {
	URL string `json:"url"`
}

// AuthUsecase defines the interface for authentication and session operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*TokenPairOutput, error)
	Login(ctx context.Context, input *LoginInput) (*TokenPairOutput, error)
	Refresh(ctx context.Context, input *RefreshInput) (*AccessTokenOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	LogoutAll(ctx context.Context, accountID uuid.UUID) error
	GoogleAuthURL(ctx context.Context, input *GoogleAuthURLInput) (*GoogleAuthURLOutput, error)
	GoogleCallback(ctx context.Context, input *GoogleCallbackInput) (*TokenPairOutput, error)
	GoogleIDTokenLogin(ctx context.Context, input *GoogleIDTokenInput) (*TokenPairOutput, error)
}
