package app

import (
	"fmt"
	"strings"
	"time"
)

// App is a registered client application identified by its slug.
type App struct {
	ID          uint
	Name        string
	DisplayName string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewApp creates an app record. Missing metadata falls back to
// defaults derived from the slug.
func NewApp(name, displayName, description string) (*App, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("app name is required")
	}

	if displayName == "" {
		displayName = name
	}
	if description == "" {
		description = "App " + name
	}

	now := time.Now().UTC()
	return &App{
		Name:        name,
		DisplayName: displayName,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Usage is the per-app login record of one user.
type Usage struct {
	ID           uint
	AppID        uint
	UserID       uint
	FirstLoginAt time.Time
	LastLoginAt  time.Time
	LoginCount   int
}

// AppWithStats pairs an app with the number of distinct users that
// have logged into it.
type AppWithStats struct {
	App       *App
	UserCount int64
}

// UserUsage pairs a user reference with that user's usage of one app.
type UserUsage struct {
	UserID       uint
	UserName     string
	UserEmail    string
	Provider     string
	FirstLoginAt time.Time
	LastLoginAt  time.Time
	LoginCount   int
}

// AppUsageSummary describes one app a user has logged into.
type AppUsageSummary struct {
	App          *App
	FirstLoginAt time.Time
	LastLoginAt  time.Time
	LoginCount   int
}

// LoginRecord is the outcome of recording a user login against an app.
type LoginRecord struct {
	// IsNewUser is true when this login created the user's first
	// usage row for the app.
	IsNewUser  bool
	LoginCount int
}
