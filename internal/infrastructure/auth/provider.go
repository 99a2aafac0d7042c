package auth

import (
	"context"
	"time"
)

const (
	// httpClientTimeout is the timeout for HTTP requests to identity providers
	httpClientTimeout = 30 * time.Second
)

// ProviderUserInfo is the normalized identity returned by every provider.
type ProviderUserInfo struct {
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
	Provider      string
	ProviderID    string
	RawProfile    []byte
}

// Provider is an external identity provider reachable through the
// authorization-code flow.
type Provider interface {
	// Name returns the provider slug used in routes and user records.
	Name() string

	// GetAuthURL builds the provider consent URL carrying the opaque state.
	GetAuthURL(state string) string

	// ExchangeCode trades an authorization code for an access token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// GetUserInfo fetches the provider profile for an access token.
	GetUserInfo(ctx context.Context, accessToken string) (*ProviderUserInfo, error)
}
