package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Auth.Password.MinLength)
	assert.Equal(t, 30, cfg.Auth.JWT.InteractiveDays)
	assert.Equal(t, 24, cfg.Auth.JWT.ServerToServerHr)
	assert.Equal(t, 30, cfg.Auth.Session.ExpDays)
}
