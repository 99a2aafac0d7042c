package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authrelay/internal/domain/user"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	u, err := user.NewLocalUser("Ada", "Ada@Example.com", "hashed")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	// Emails are stored lowercased
	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "local", byEmail.Provider)
	require.NotNil(t, byEmail.PasswordHash)
	assert.Equal(t, "hashed", *byEmail.PasswordHash)
	assert.Equal(t, user.RoleUser, byEmail.Role)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "ada@example.com", byID.Email)
}

func TestUserRepository_AbsentRowsReturnNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	byID, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, byID)

	byEmail, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, byEmail)

	byProvider, err := repo.GetByProvider(ctx, "google", "missing")
	require.NoError(t, err)
	assert.Nil(t, byProvider)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	first, err := user.NewLocalUser("Ada", "ada@example.com", "hash1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := user.NewLocalUser("Other Ada", "ada@example.com", "hash2")
	require.NoError(t, err)
	err = repo.Create(ctx, second)
	require.Error(t, err)

	authErr := sharederrors.GetAuthError(err)
	require.NotNil(t, authErr)
	assert.Equal(t, sharederrors.ErrorTypeAlreadyRegistered, authErr.Type)
}

func TestUserRepository_DuplicateProviderIdentity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	first, err := user.NewProviderUser("Grace", "grace@example.com", "google", "google-123", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := user.NewProviderUser("Impostor", "other@example.com", "google", "google-123", nil)
	require.NoError(t, err)
	err = repo.Create(ctx, second)
	require.Error(t, err)

	authErr := sharederrors.GetAuthError(err)
	require.NotNil(t, authErr)
	assert.Equal(t, sharederrors.ErrorTypeAlreadyRegistered, authErr.Type)
}

func TestUserRepository_LocalAccountsShareNoProviderIdentity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	// Accounts without an external identity must not collide on the
	// (provider, provider_id) unique index.
	first, err := user.NewLocalUser("Ada", "ada@example.com", "hash1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := user.NewLocalUser("Grace", "grace@example.com", "hash2")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, second))
}

func TestUserRepository_UpdateIntoTakenProviderIdentity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	owner, err := user.NewProviderUser("Grace", "grace@example.com", "google", "google-123", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, owner))

	local, err := user.NewLocalUser("Ada", "ada@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, local))

	local.Provider = "google"
	local.ProviderID = "google-123"
	err = repo.Update(ctx, local)
	require.Error(t, err)

	authErr := sharederrors.GetAuthError(err)
	require.NotNil(t, authErr)
	assert.Equal(t, sharederrors.ErrorTypeAlreadyRegistered, authErr.Type)
}

func TestUserRepository_ProviderLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	u, err := user.NewProviderUser("Grace", "grace@example.com", "google", "google-123", []byte(`{"id":"google-123"}`))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	found, err := repo.GetByProvider(ctx, "google", "google-123")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)
	assert.Nil(t, found.PasswordHash)
	assert.JSONEq(t, `{"id":"google-123"}`, string(found.RawProfile))

	// Same provider ID under a different provider is a different identity
	other, err := repo.GetByProvider(ctx, "facebook", "google-123")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestUserRepository_UpdateRole(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	u, err := user.NewLocalUser("Ada", "ada@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.UpdateRole(ctx, u.ID, user.RoleAdmin))

	updated, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, updated.Role)
	assert.True(t, updated.HasRole(user.RoleUser))

	err = repo.UpdateRole(ctx, 999, user.RoleAdmin)
	require.Error(t, err)
	assert.True(t, sharederrors.IsNotFoundError(err))

	err = repo.UpdateRole(ctx, u.ID, user.Role(42))
	require.Error(t, err)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	exists, err := repo.ExistsByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	u, err := user.NewLocalUser("Ada", "ada@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	exists, err = repo.ExistsByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}
