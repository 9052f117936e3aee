package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "smarttrack/internal/delivery/context"
	"smarttrack/internal/domain/entity"
	domainerrors "smarttrack/internal/domain/errors"
	"smarttrack/internal/domain/repository"
	"smarttrack/internal/domain/service"
	"smarttrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	publisher   service.AccountEventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Publisher   service.AccountEventPublisher
	Logger      *slog.Logger
}

// NewProfileService creates a new profile service instance.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		publisher:   params.Publisher,
		logger:      params.Logger,
		now:         time.Now,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCurrentAccount loads the subject of an access token. A missing account is
// reported like a bad token, an inactive one as deactivated.
func (srv *profileService) GetCurrentAccount(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidToken, "token subject no longer exists")
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	if !account.Active {
		return nil, domainerrors.ErrAccountDeactivated
	}

	return account, nil
}

// GetProfile returns the read model of the account.
func (srv *profileService) GetProfile(ctx context.Context, accountID uuid.UUID) (*usecase.AccountOutput, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	return usecase.NewAccountOutput(account), nil
}

// UpdateProfile changes the display name and/or avatar of the account.
func (srv *profileService) UpdateProfile(ctx context.Context, accountID uuid.UUID, input *usecase.UpdateProfileInput) (*usecase.AccountOutput, error) {
	var updated *entity.Account

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound
			}

			return errors.Wrap(err, "failed to find account")
		}

		changed := false
		if input.FullName != nil {
			account.FullName = *input.FullName
			changed = true
		}
		if input.AvatarURL != nil {
			account.AvatarURL = *input.AvatarURL
			changed = true
		}

		if changed {
			account.UpdatedAt = srv.now()
			if err := accountRepo.Update(ctx, account); err != nil {
				return errors.Wrap(err, "failed to update account")
			}
		}
		updated = account

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to update profile", slog.Any("accountID", accountID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute update profile transaction")
	}

	return usecase.NewAccountOutput(updated), nil
}

// DeleteAccount removes the refresh tokens of the account and then the account itself.
func (srv *profileService) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	var deleted *entity.Account

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound
			}

			return errors.Wrap(err, "failed to find account")
		}

		if err := repoFactory.RefreshTokenRepo().DeleteByAccountID(ctx, accountID); err != nil {
			return errors.Wrap(err, "failed to delete refresh tokens")
		}

		if err := accountRepo.Delete(ctx, accountID); err != nil {
			return errors.Wrap(err, "failed to delete account")
		}
		deleted = account

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete account", slog.Any("accountID", accountID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute delete account transaction")
	}

	srv.log(ctx).Info("Account deleted", slog.Any("accountID", accountID))
	publishAccountEvent(ctx, srv.publisher, srv.log(ctx), srv.now, service.AccountEventDeleted, deleted, "")

	return nil
}
