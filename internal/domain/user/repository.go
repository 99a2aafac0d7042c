package user

import "context"

// Repository defines the interface for user data operations.
// Lookup methods return (nil, nil) when no row matches.
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by internal ID
	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByProvider retrieves a user by provider name and provider-issued ID
	GetByProvider(ctx context.Context, provider, providerID string) (*User, error)

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// UpdateRole changes the privilege level of a user
	UpdateRole(ctx context.Context, id uint, role Role) error

	// ExistsByEmail checks if a user exists by email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
