package postgres

import (
	"context"

	"smarttrack/internal/domain/entity"
	domainerrors "smarttrack/internal/domain/errors"
	"smarttrack/internal/domain/repository"
	"smarttrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the domain.AccountRepository interface.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return repo.findOne(ctx, "email = ?", email)
}

// FindByGoogleID retrieves the account linked to the given Google subject.
func (repo *accountRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.Account, error) {
	return repo.findOne(ctx, "google_id = ?", googleID)
}

func (repo *accountRepository) findOne(ctx context.Context, query string, arg any) (*entity.Account, error) {
	var row model.AccountModel
	if err := repo.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.WithStack(err)
	}

	return model.ToAccountDomain(&row), nil
}

// Create persists a new account.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	row := model.FromAccountDomain(account)
	if err := repo.db.WithContext(ctx).Create(row).Error; err != nil {
		return mapAccountWriteError(err, "failed to create account")
	}

	account.ID = row.ID
	account.CreatedAt = row.CreatedAt
	account.UpdatedAt = row.UpdatedAt

	return nil
}

// Update writes every mutable column of an existing account.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	row := model.FromAccountDomain(account)
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", account.ID).
		Select("email", "full_name", "password_hash", "google_id", "avatar_url",
			"is_active", "is_verified", "updated_at", "last_login").
		Updates(row)
	if result.Error != nil {
		return mapAccountWriteError(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = row.UpdatedAt

	return nil
}

// Delete removes the account row.
func (repo *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AccountModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

func mapAccountWriteError(err error, details string) error {
	if isUniqueConstraintViolation(err) {
		return domainerrors.ErrAccountAlreadyExists
	}
	if isNotNullConstraintViolation(err) {
		return domainerrors.ErrValidationFailed.WrapMessage("missing required account information")
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}
