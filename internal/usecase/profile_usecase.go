// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"smarttrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for operations on the signed-in account.
type ProfileUsecase interface {
	// GetCurrentAccount resolves the subject of a verified access token to an active account.
	GetCurrentAccount(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)
	GetProfile(ctx context.Context, accountID uuid.UUID) (*AccountOutput, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, input *UpdateProfileInput) (*AccountOutput, error)
	DeleteAccount(ctx context.Context, accountID uuid.UUID) error
}

// --- Input DTOs ---

// UpdateProfileInput defines the fields that can be changed. Nil fields are left untouched.
type UpdateProfileInput struct {
	FullName  *string
	AvatarURL *string
}

// --- Output DTOs ---

// AccountOutput is the public read model of an account. Credentials never appear here.
type AccountOutput struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccountOutput maps an account entity to its read model.
func NewAccountOutput(account *entity.Account) *AccountOutput {
	output := &AccountOutput{
		ID:        account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		Verified:  account.Verified,
		CreatedAt: account.CreatedAt,
	}
	if account.AvatarURL != "" {
		avatar := account.AvatarURL
		output.AvatarURL = &avatar
	}

	return output
}
