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

// refreshTokenRepository implements the domain.RefreshTokenRepository interface.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Create persists a new refresh token, representing a session.
func (repo *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	row := model.FromRefreshTokenDomain(token)
	if err := repo.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("refresh token already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAccountNotFound.WrapMessage("invalid account reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create refresh token")
	}

	token.ID = row.ID
	token.CreatedAt = row.CreatedAt

	return nil
}

// FindByHash retrieves a refresh token record by its stored hash, whatever its state.
func (repo *refreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	var row model.RefreshTokenModel
	if err := repo.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	return model.ToRefreshTokenDomain(&row), nil
}

// RevokeByHash marks the matching record revoked. Revoking an already revoked record still matches.
func (repo *refreshTokenRepository) RevokeByHash(ctx context.Context, tokenHash string) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true)
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to revoke refresh token")
	}

	return result.RowsAffected > 0, nil
}

// RevokeAllByAccountID revokes every live token of the account.
func (repo *refreshTokenRepository) RevokeAllByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("account_id = ? AND revoked = ?", accountID, false).
		Update("revoked", true)
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to revoke refresh tokens")
	}

	return result.RowsAffected, nil
}

// DeleteByAccountID removes all refresh tokens of the account.
func (repo *refreshTokenRepository) DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&model.RefreshTokenModel{}).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}
