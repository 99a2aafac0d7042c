package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthState_RoundTrip(t *testing.T) {
	original := &OAuthState{
		RedirectURI:    "https://app.example.com/welcome",
		AppName:        "demo-app",
		AppDisplayName: "Demo App",
		AppDescription: "A demo application",
		Timestamp:      time.Now().UnixMilli(),
		Source:         "cross_domain",
	}

	encoded, err := EncodeState(original)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeState(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.True(t, decoded.IsCrossDomain())
}

func TestDecodeState_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not base64", "%%%not-base64%%%"},
		{"base64 but not json", base64.StdEncoding.EncodeToString([]byte("plain text"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeState(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestDecodeState_EmptyJSONIsSessionFlow(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("{}"))

	decoded, err := DecodeState(encoded)
	require.NoError(t, err)
	assert.False(t, decoded.IsCrossDomain())
	assert.Empty(t, decoded.RedirectURI)
}
