package models

import (
	"time"

	"gorm.io/datatypes"

	"authrelay/internal/shared/constants"
)

// UserModel represents the database persistence model for users
// This is the anti-corruption layer between domain and database
type UserModel struct {
	ID           uint    `gorm:"primarykey"`
	Name         string  `gorm:"not null;size:100"`
	Email        string  `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash *string `gorm:"column:password;size:255"`
	Provider     string  `gorm:"not null;size:32;uniqueIndex:uniq_provider_identity"`
	ProviderID   *string `gorm:"size:255;uniqueIndex:uniq_provider_identity"`
	Role         int     `gorm:"not null;default:2"`
	RawProfile   datatypes.JSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}
