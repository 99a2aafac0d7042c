package user

import (
	"fmt"
	"strings"
	"time"
)

// Role is an ordered privilege level. Lower values carry more privilege.
type Role int

const (
	RoleRoot  Role = 0
	RoleAdmin Role = 1
	RoleUser  Role = 2
	RoleGuest Role = 3
)

// String returns the canonical role name.
func (r Role) String() string {
	switch r {
	case RoleRoot:
		return "root"
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	case RoleGuest:
		return "guest"
	default:
		return "unknown"
	}
}

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	return r >= RoleRoot && r <= RoleGuest
}

// ParseRole maps a role name back to its Role value.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "root":
		return RoleRoot, nil
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	case "guest":
		return RoleGuest, nil
	default:
		return RoleGuest, fmt.Errorf("unknown role: %q", s)
	}
}

// User is an account known to the broker. PasswordHash is nil for
// accounts created through an external identity provider; ProviderID
// is empty for local accounts.
type User struct {
	ID           uint
	Name         string
	Email        string
	PasswordHash *string
	Provider     string
	ProviderID   string
	Role         Role
	RawProfile   []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewLocalUser creates a password-backed account.
func NewLocalUser(name, email, passwordHash string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	now := time.Now().UTC()
	return &User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: &passwordHash,
		Provider:     "local",
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewProviderUser creates an account backed by an external identity provider.
func NewProviderUser(name, email, provider, providerID string, rawProfile []byte) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if provider == "" || providerID == "" {
		return nil, fmt.Errorf("provider and provider ID are required")
	}

	now := time.Now().UTC()
	return &User{
		Name:       name,
		Email:      strings.ToLower(email),
		Provider:   provider,
		ProviderID: providerID,
		Role:       RoleUser,
		RawProfile: rawProfile,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NewServerUser creates an account asserted by a trusted backend.
// It carries neither a password nor a provider-scoped external ID;
// the provider tag records which backend vouched for the identity.
func NewServerUser(name, email, provider string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if provider == "" {
		provider = "server"
	}

	now := time.Now().UTC()
	return &User{
		Name:      name,
		Email:     strings.ToLower(email),
		Provider:  provider,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasRole reports whether the user's privilege level satisfies the
// required role. Privilege is inclusive downward: an admin satisfies
// a check for user.
func (u *User) HasRole(required Role) bool {
	return u.Role <= required
}

// IsLocal reports whether the account authenticates with a password.
func (u *User) IsLocal() bool {
	return u.Provider == "local"
}
