package models

import (
	"time"

	"authrelay/internal/shared/constants"
)

// AppModel represents the database persistence model for registered apps
type AppModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"column:app_name;uniqueIndex;not null;size:100"`
	DisplayName string `gorm:"column:app_display_name;not null;size:255"`
	Description string `gorm:"column:app_description;size:1000"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (AppModel) TableName() string {
	return constants.TableApps
}
