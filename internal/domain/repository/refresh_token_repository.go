package repository

import (
	"context"

	"smarttrack/internal/domain/entity"
	"smarttrack/internal/errors"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when no refresh token matches the given hash.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository persists refresh token records keyed by the hash of their secret.
type RefreshTokenRepository interface {
	// Create persists a new refresh token record.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByHash retrieves a record by its token hash regardless of validity.
	FindByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// RevokeByHash flips revoked to true. It reports whether a record matched.
	RevokeByHash(ctx context.Context, tokenHash string) (bool, error)

	// RevokeAllByAccountID revokes every non-revoked token of the account and
	// returns how many rows changed.
	RevokeAllByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)

	// DeleteByAccountID removes every token of the account. Only used when the
	// account itself is deleted.
	DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error
}
