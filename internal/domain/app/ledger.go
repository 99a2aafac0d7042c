package app

import "context"

// RegisterResult reports an explicit app registration outcome.
type RegisterResult struct {
	App   *App
	IsNew bool
}

// Ledger persists apps and their per-user login records.
// Lookup methods return (nil, nil) when no row matches.
type Ledger interface {
	// GetByID retrieves an app by internal ID
	GetByID(ctx context.Context, id uint) (*App, error)

	// GetByName retrieves an app by slug
	GetByName(ctx context.Context, name string) (*App, error)

	// FindOrCreate returns the app with the given slug, creating it
	// with default metadata when absent. Metadata of an existing app
	// is never modified.
	FindOrCreate(ctx context.Context, name, displayName, description string) (*App, error)

	// RegisterOrFind returns the app with the given slug, creating it
	// when absent. Unlike FindOrCreate, non-empty metadata fields
	// refresh an existing app's metadata.
	RegisterOrFind(ctx context.Context, name, displayName, description string) (*RegisterResult, error)

	// RecordLogin upserts the usage row for (appID, userID): the first
	// login creates the row, later logins bump the counter and the
	// last-login timestamp.
	RecordLogin(ctx context.Context, appID, userID uint) (*LoginRecord, error)

	// ListApps returns every app with its distinct-user count.
	ListApps(ctx context.Context) ([]*AppWithStats, error)

	// GetUsersByApp returns the usage rows of every user of an app.
	GetUsersByApp(ctx context.Context, appID uint) ([]*UserUsage, error)

	// GetAppsByUser returns every app the user has logged into.
	GetAppsByUser(ctx context.Context, userID uint) ([]*AppUsageSummary, error)

	// Delete removes an app and its usage rows.
	Delete(ctx context.Context, id uint) error
}
