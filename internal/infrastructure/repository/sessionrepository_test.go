package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authrelay/internal/domain/user"
	"authrelay/internal/shared/logger"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db, logger.NewLogger())
	ctx := context.Background()

	u := seedUser(t, db, "Ada", "ada@example.com")

	session, err := user.NewSession(u.ID, "10.0.0.1", "test-agent", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, session.ID, 64)

	require.NoError(t, repo.Create(ctx, session))

	found, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.UserID)
	assert.False(t, found.IsExpired())

	require.NoError(t, repo.Delete(ctx, session.ID))

	gone, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSessionRepository_DeleteByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db, logger.NewLogger())
	ctx := context.Background()

	ada := seedUser(t, db, "Ada", "ada@example.com")
	grace := seedUser(t, db, "Grace", "grace@example.com")

	for _, uid := range []uint{ada.ID, ada.ID, grace.ID} {
		s, err := user.NewSession(uid, "", "", time.Now().Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, s))
	}

	require.NoError(t, repo.DeleteByUserID(ctx, ada.ID))

	var count int64
	require.NoError(t, db.Table("sessions").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db, logger.NewLogger())
	ctx := context.Background()

	u := seedUser(t, db, "Ada", "ada@example.com")

	live, err := user.NewSession(u.ID, "", "", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, live))

	dead, err := user.NewSession(u.ID, "", "", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, dead))

	require.NoError(t, repo.DeleteExpired(ctx))

	stillLive, err := repo.GetByID(ctx, live.ID)
	require.NoError(t, err)
	assert.NotNil(t, stillLive)

	gone, err := repo.GetByID(ctx, dead.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
