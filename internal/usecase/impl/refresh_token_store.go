package impl

import (
	"context"
	"time"

	"smarttrack/config"
	"smarttrack/internal/domain/entity"
	domainerrors "smarttrack/internal/domain/errors"
	"smarttrack/internal/domain/repository"
	"smarttrack/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RefreshTokenStore issues, validates and revokes opaque refresh tokens.
// Every method takes the repository bound to the caller's transaction.
type RefreshTokenStore struct {
	generator service.RefreshTokenGenerator
	ttl       time.Duration
	now       func() time.Time
}

// NewRefreshTokenStore is the constructor for RefreshTokenStore.
func NewRefreshTokenStore(generator service.RefreshTokenGenerator, cfg *config.Config) *RefreshTokenStore {
	ttl := config.DefaultRefreshTTL
	if cfg != nil && cfg.Token != nil && cfg.Token.RefreshTTL > 0 {
		ttl = cfg.Token.RefreshTTL
	}

	return &RefreshTokenStore{
		generator: generator,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Issue creates a new session for the account and returns the raw secret.
// Only the hash of the secret is persisted.
func (s *RefreshTokenStore) Issue(ctx context.Context, repo repository.RefreshTokenRepository, accountID uuid.UUID) (string, error) {
	raw, hash, err := s.generator.Generate()
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrTokenGenerationFailed, err.Error())
	}

	token := &entity.RefreshToken{
		AccountID: accountID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.ttl),
		CreatedAt: s.now(),
	}
	if err := repo.Create(ctx, token); err != nil {
		return "", errors.Wrap(err, "failed to store refresh token")
	}

	return raw, nil
}

// Validate returns the stored record when the secret is known, not revoked and not expired.
// Every other case is reported as ErrRefreshTokenInvalid without saying which.
func (s *RefreshTokenStore) Validate(ctx context.Context, repo repository.RefreshTokenRepository, raw string) (*entity.RefreshToken, error) {
	if raw == "" {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	token, err := repo.FindByHash(ctx, s.generator.Hash(raw))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to find refresh token")
	}

	if !token.Valid(s.now()) {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	return token, nil
}

// Revoke marks the session revoked. Unknown or already revoked secrets are a no-op.
func (s *RefreshTokenStore) Revoke(ctx context.Context, repo repository.RefreshTokenRepository, raw string) error {
	if raw == "" {
		return nil
	}

	if _, err := repo.RevokeByHash(ctx, s.generator.Hash(raw)); err != nil {
		return errors.Wrap(err, "failed to revoke refresh token")
	}

	return nil
}

// RevokeAll revokes every live session of the account and reports how many were revoked.
func (s *RefreshTokenStore) RevokeAll(ctx context.Context, repo repository.RefreshTokenRepository, accountID uuid.UUID) (int64, error) {
	revoked, err := repo.RevokeAllByAccountID(ctx, accountID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to revoke refresh tokens")
	}

	return revoked, nil
}
