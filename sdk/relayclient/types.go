// Package relayclient provides a Go SDK for app backends talking to an
// authrelay server: server-to-server authentication, token validation
// and login URL construction.
package relayclient

import "encoding/json"

// UserInfo is the public projection of an authrelay account.
type UserInfo struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Role     string `json:"role"`
}

// UsageInfo reports the app ledger outcome of a login.
type UsageInfo struct {
	AppName     string `json:"app_name"`
	DisplayName string `json:"display_name"`
	IsNewUser   bool   `json:"is_new_user"`
	LoginCount  int    `json:"login_count"`
}

// AuthResult is the outcome of a successful authentication.
type AuthResult struct {
	Token string     `json:"token"`
	User  *UserInfo  `json:"user"`
	Usage *UsageInfo `json:"usage,omitempty"`
}

// ValidateResult is the outcome of a token check.
type ValidateResult struct {
	Valid     bool      `json:"valid"`
	User      *UserInfo `json:"user"`
	ExpiresAt int64     `json:"expires_at"`
}

// apiEnvelope is the server's response wrapper.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
	Message string          `json:"message"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
