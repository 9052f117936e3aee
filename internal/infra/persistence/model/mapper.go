package model

import "smarttrack/internal/domain/entity"

// FromAccountDomain converts an account entity into its table row.
func FromAccountDomain(a *entity.Account) *AccountModel {
	return &AccountModel{
		ID:           a.ID,
		Email:        a.Email,
		FullName:     a.FullName,
		PasswordHash: nullableString(a.PasswordHash),
		GoogleID:     nullableString(a.GoogleID),
		AvatarURL:    nullableString(a.AvatarURL),
		IsActive:     a.Active,
		IsVerified:   a.Verified,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		LastLogin:    a.LastLoginAt,
	}
}

// ToAccountDomain converts a table row into an account entity.
func ToAccountDomain(m *AccountModel) *entity.Account {
	return &entity.Account{
		ID:           m.ID,
		Email:        m.Email,
		FullName:     m.FullName,
		PasswordHash: derefString(m.PasswordHash),
		GoogleID:     derefString(m.GoogleID),
		AvatarURL:    derefString(m.AvatarURL),
		Active:       m.IsActive,
		Verified:     m.IsVerified,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		LastLoginAt:  m.LastLogin,
	}
}

// FromRefreshTokenDomain converts a refresh token entity into its table row.
func FromRefreshTokenDomain(t *entity.RefreshToken) *RefreshTokenModel {
	return &RefreshTokenModel{
		ID:        t.ID,
		AccountID: t.AccountID,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		Revoked:   t.Revoked,
		CreatedAt: t.CreatedAt,
	}
}

// ToRefreshTokenDomain converts a table row into a refresh token entity.
func ToRefreshTokenDomain(m *RefreshTokenModel) *entity.RefreshToken {
	return &entity.RefreshToken{
		ID:        m.ID,
		AccountID: m.AccountID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		Revoked:   m.Revoked,
		CreatedAt: m.CreatedAt,
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
