package google

import (
	"context"
	"log/slog"

	"smarttrack/config"
	"smarttrack/internal/domain/entity"
	"smarttrack/internal/domain/service"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"google.golang.org/api/idtoken"
)

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// IDTokenVerifier verifies Google Sign-In ID tokens sent directly by clients.
type IDTokenVerifier struct {
	clientID string
	validate validateFunc
	checker  *validator.Validate
	logger   *slog.Logger
}

// NewIDTokenVerifier creates a verifier bound to the configured OAuth client id.
func NewIDTokenVerifier(cfg *config.Config, logger *slog.Logger) service.IDTokenVerifier {
	clientID := ""
	if cfg.GoogleOAuth != nil {
		clientID = cfg.GoogleOAuth.ClientID
	}

	return newIDTokenVerifier(clientID, idtoken.Validate, logger)
}

func newIDTokenVerifier(clientID string, validate validateFunc, logger *slog.Logger) *IDTokenVerifier {
	return &IDTokenVerifier{
		clientID: clientID,
		validate: validate,
		checker:  validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// VerifyIDToken checks the token signature, audience and expiry and maps its claims to a profile.
func (v *IDTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (*service.FederatedProfile, error) {
	if v.clientID == "" {
		return nil, errors.New("google client id is not configured")
	}

	payload, err := v.validate(ctx, idToken, v.clientID)
	if err != nil {
		v.logger.Debug("Google ID token rejected", slog.Any("error", err))

		return nil, errors.Wrap(err, "invalid ID token")
	}

	profile, err := profileFromPayload(payload)
	if err != nil {
		return nil, err
	}

	if err := v.checker.Struct(profile); err != nil {
		return nil, errors.Wrap(err, "invalid google profile")
	}

	return profile, nil
}

func profileFromPayload(payload *idtoken.Payload) (*service.FederatedProfile, error) {
	if payload == nil {
		return nil, errors.New("empty ID token payload")
	}

	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, errors.New("google account email is not verified")
	}

	return &service.FederatedProfile{
		Provider:  entity.ProviderTypeGoogle,
		SubjectID: payload.Subject,
		Email:     stringClaim(payload.Claims, "email"),
		Name:      stringClaim(payload.Claims, "name"),
		AvatarURL: stringClaim(payload.Claims, "picture"),
	}, nil
}

func stringClaim(claims map[string]any, key string) string {
	value, _ := claims[key].(string)

	return value
}
