package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. Nullable columns use pointers so that
// the unique index on google_id ignores accounts without a Google identity.
type AccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	PasswordHash *string   `gorm:"type:text"`
	GoogleID     *string   `gorm:"type:varchar(255);uniqueIndex"`
	AvatarURL    *string   `gorm:"type:text"`
	IsActive     bool      `gorm:"not null;default:true"`
	IsVerified   bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	LastLogin    *time.Time

	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
