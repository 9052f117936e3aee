package service

import (
	"context"

	"smarttrack/internal/domain/entity"
)

// FederatedProfile is the validated payload returned by an identity provider.
type FederatedProfile struct {
	Provider  entity.ProviderType `validate:"required"`
	SubjectID string              `validate:"required"`
	Email     string              `validate:"required,email"`
	Name      string
	AvatarURL string
}

// FederatedIdentityProvider exchanges an OAuth authorization code for a provider profile.
type FederatedIdentityProvider interface {
	// AuthCodeURL builds the consent screen URL the client should open.
	// It fails if the redirect URI is not acceptable.
	AuthCodeURL(redirectURI, state string) (string, error)

	// Exchange trades the authorization code for the signed-in user's profile.
	Exchange(ctx context.Context, code, redirectURI string) (*FederatedProfile, error)
}

// IDTokenVerifier verifies ID tokens minted directly on the client (e.g. Google Sign-In).
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FederatedProfile, error)
}
