// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"smarttrack/internal/domain/entity"
	"smarttrack/internal/errors"

	"github.com/google/uuid"
)

// ErrAccountNotFound is returned by point lookups that match no account.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// Uniqueness violations on email or Google id surface as domainerrors.ErrAccountAlreadyExists.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its exact email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByGoogleID retrieves the account linked to a Google subject identifier.
	FindByGoogleID(ctx context.Context, googleID string) (*entity.Account, error)

	// Create persists a new account and fills in generated fields.
	Create(ctx context.Context, account *entity.Account) error

	// Update writes every mutable field of an existing account.
	Update(ctx context.Context, account *entity.Account) error

	// Delete removes the account row. Callers delete owned refresh tokens first
	// within the same transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}
