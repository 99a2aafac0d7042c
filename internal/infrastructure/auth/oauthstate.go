package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"authrelay/internal/shared/constants"
)

// OAuthState is the request context carried through the provider
// redirect inside the opaque state parameter. It survives the
// round-trip without server-side storage.
type OAuthState struct {
	RedirectURI    string `json:"redirect_uri,omitempty"`
	AppName        string `json:"app_name,omitempty"`
	AppDisplayName string `json:"app_display_name,omitempty"`
	AppDescription string `json:"app_description,omitempty"`
	Timestamp      int64  `json:"timestamp"`
	Source         string `json:"source,omitempty"`
}

// IsCrossDomain reports whether the flow was started by a remote app
// expecting the popup completion channel.
func (s *OAuthState) IsCrossDomain() bool {
	return s.Source == constants.StateSourceCrossDomain
}

// EncodeState serializes the state for use as an OAuth state parameter.
func EncodeState(s *OAuthState) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal oauth state: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeState reverses EncodeState. Callers treat a failure as a
// plain session flow rather than rejecting the callback.
func DecodeState(encoded string) (*OAuthState, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode oauth state: %w", err)
	}

	var s OAuthState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oauth state: %w", err)
	}
	return &s, nil
}
