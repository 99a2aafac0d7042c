package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, hasher.Verify("correct horse battery staple", hash))
	assert.Error(t, hasher.Verify("wrong password", hash))
	assert.Error(t, hasher.Verify("", hash))
}

func TestBcryptPasswordHasher_DistinctSalts(t *testing.T) {
	hasher := NewBcryptPasswordHasher(bcrypt.MinCost)

	h1, err := hasher.Hash("same input")
	require.NoError(t, err)
	h2, err := hasher.Hash("same input")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestNewBcryptPasswordHasher_ClampsInvalidCost(t *testing.T) {
	hasher := NewBcryptPasswordHasher(99)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewBcryptPasswordHasher(-1)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
