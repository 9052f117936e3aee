package impl

import (
	"context"
	"time"

	"smarttrack/internal/domain/entity"
	"smarttrack/internal/domain/repository"
	"smarttrack/internal/domain/service"

	"github.com/pkg/errors"
)

// ResolveOutcome reports which branch of federated resolution produced the account.
type ResolveOutcome string

const (
	// ResolveOutcomeExisting means the federated identity was already linked.
	ResolveOutcomeExisting ResolveOutcome = "existing"
	// ResolveOutcomeMerged means the identity was attached to an account with the same email.
	ResolveOutcomeMerged ResolveOutcome = "merged"
	// ResolveOutcomeCreated means a new federation-only account was created.
	ResolveOutcomeCreated ResolveOutcome = "created"
)

// IdentityResolver maps a verified provider profile to a local account.
type IdentityResolver struct {
	now func() time.Time
}

// NewIdentityResolver is the constructor for IdentityResolver.
func NewIdentityResolver() *IdentityResolver {
	return &IdentityResolver{now: time.Now}
}

// Resolve finds the account by provider subject, then by email, and creates it otherwise.
// A match by email links the provider identity to that account without further confirmation:
// the provider's email attestation is trusted.
func (r *IdentityResolver) Resolve(
	ctx context.Context,
	repo repository.AccountRepository,
	profile *service.FederatedProfile,
) (*entity.Account, ResolveOutcome, error) {
	now := r.now()

	account, err := repo.FindByGoogleID(ctx, profile.SubjectID)
	switch {
	case err == nil:
		account.AvatarURL = profile.AvatarURL
		account.MarkLoggedIn(now)
		account.UpdatedAt = now
		if err := repo.Update(ctx, account); err != nil {
			return nil, "", errors.Wrap(err, "failed to update federated account")
		}

		return account, ResolveOutcomeExisting, nil
	case !errors.Is(err, repository.ErrAccountNotFound):
		return nil, "", errors.Wrap(err, "failed to find account by google id")
	}

	account, err = repo.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		account.GoogleID = profile.SubjectID
		account.Verified = true
		if profile.AvatarURL != "" {
			account.AvatarURL = profile.AvatarURL
		}
		account.MarkLoggedIn(now)
		account.UpdatedAt = now
		if err := repo.Update(ctx, account); err != nil {
			return nil, "", errors.Wrap(err, "failed to link federated identity")
		}

		return account, ResolveOutcomeMerged, nil
	case !errors.Is(err, repository.ErrAccountNotFound):
		return nil, "", errors.Wrap(err, "failed to find account by email")
	}

	name := profile.Name
	if name == "" {
		name = entity.EmailLocalPart(profile.Email)
	}

	account = &entity.Account{
		Email:     profile.Email,
		FullName:  name,
		GoogleID:  profile.SubjectID,
		AvatarURL: profile.AvatarURL,
		Active:    true,
		Verified:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	account.MarkLoggedIn(now)
	if err := repo.Create(ctx, account); err != nil {
		return nil, "", errors.Wrap(err, "failed to create federated account")
	}

	return account, ResolveOutcomeCreated, nil
}
