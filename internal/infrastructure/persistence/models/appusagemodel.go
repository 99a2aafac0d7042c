package models

import (
	"time"

	"authrelay/internal/shared/constants"
)

// AppUsageModel records one user's login history against one app.
// The (app_id, user_id) pair is unique; logins upsert this row.
type AppUsageModel struct {
	ID           uint `gorm:"primarykey"`
	AppID        uint `gorm:"not null;uniqueIndex:idx_app_user"`
	UserID       uint `gorm:"not null;uniqueIndex:idx_app_user"`
	FirstLoginAt time.Time
	LastLoginAt  time.Time
	LoginCount   int `gorm:"not null;default:1"`
}

// TableName specifies the table name for GORM
func (AppUsageModel) TableName() string {
	return constants.TableAppUsages
}
