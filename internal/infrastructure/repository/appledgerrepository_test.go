package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"authrelay/internal/domain/user"
	"authrelay/internal/infrastructure/persistence/models"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

func seedUser(t *testing.T, db *gorm.DB, name, email string) *user.User {
	t.Helper()

	repo := NewUserRepository(db, logger.NewLogger())
	u, err := user.NewLocalUser(name, email, "hash")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestAppLedgerRepository_FindOrCreate(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewAppLedgerRepository(db, logger.NewLogger())
	ctx := context.Background()

	created, err := ledger.FindOrCreate(ctx, "demo-app", "", "")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "demo-app", created.Name)
	assert.Equal(t, "demo-app", created.DisplayName)
	assert.Equal(t, "App demo-app", created.Description)

	// Existing app metadata is never touched
	again, err := ledger.FindOrCreate(ctx, "demo-app", "Fancy Name", "Fancy description")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "demo-app", again.DisplayName)
	assert.Equal(t, "App demo-app", again.Description)
}

func TestAppLedgerRepository_RegisterOrFind(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewAppLedgerRepository(db, logger.NewLogger())
	ctx := context.Background()

	result, err := ledger.RegisterOrFind(ctx, "demo-app", "Demo App", "A demo")
	require.NoError(t, err)
	assert.True(t, result.IsNew)
	assert.Equal(t, "Demo App", result.App.DisplayName)

	// Re-registration refreshes non-empty metadata
	result, err = ledger.RegisterOrFind(ctx, "demo-app", "Demo App v2", "")
	require.NoError(t, err)
	assert.False(t, result.IsNew)
	assert.Equal(t, "Demo App v2", result.App.DisplayName)
	assert.Equal(t, "A demo", result.App.Description)
}

func TestAppLedgerRepository_RecordLoginCounts(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewAppLedgerRepository(db, logger.NewLogger())
	ctx := context.Background()

	u := seedUser(t, db, "Ada", "ada@example.com")
	a, err := ledger.FindOrCreate(ctx, "demo-app", "", "")
	require.NoError(t, err)

	first, err := ledger.RecordLogin(ctx, a.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, first.IsNewUser)
	assert.Equal(t, 1, first.LoginCount)

	var seeded models.AppUsageModel
	require.NoError(t, db.Where("app_id = ? AND user_id = ?", a.ID, u.ID).First(&seeded).Error)

	for i := 2; i <= 5; i++ {
		rec, err := ledger.RecordLogin(ctx, a.ID, u.ID)
		require.NoError(t, err)
		assert.False(t, rec.IsNewUser)
		assert.Equal(t, i, rec.LoginCount)
	}

	var row models.AppUsageModel
	require.NoError(t, db.Where("app_id = ? AND user_id = ?", a.ID, u.ID).First(&row).Error)
	// Repeat logins advance last_login_at but never first_login_at
	assert.True(t, row.FirstLoginAt.Equal(seeded.FirstLoginAt))
	assert.False(t, row.LastLoginAt.Before(row.FirstLoginAt))
}

func TestAppLedgerRepository_RecordLoginConcurrent(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewAppLedgerRepository(db, logger.NewLogger())
	ctx := context.Background()

	u := seedUser(t, db, "Ada", "ada@example.com")
	a, err := ledger.FindOrCreate(ctx, "demo-app", "", "")
	require.NoError(t, err)

	const logins = 16
	var wg sync.WaitGroup
	errs := make(chan error, logins)
	for i := 0; i < logins; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.RecordLogin(ctx, a.ID, u.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// Concurrent first logins must collapse onto a single row
	var rows []models.AppUsageModel
	require.NoError(t, db.Where("app_id = ? AND user_id = ?", a.ID, u.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, logins, rows[0].LoginCount)
}

func TestAppLedgerRepository_RecordLoginPerUser(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewAppLedgerRepository(db, logger.NewLogger())
	ctx := context.Background()

	ada := seedUser(t, db, "Ada", "ada@example.com")
	grace := seedUser(t, db, "Grace", "grace@example.com")
	a, err := ledger.FindOrCreate(ctx, "demo-app", "", "")
	require.NoError(t, err)

	_, err = ledger.RecordLogin(ctx, a.ID, ada.ID)
	require.NoError(t, err)

	rec, err := ledger.RecordLogin(ctx, a.ID, grace.ID)
	require.NoError(t, err)
	assert.True(t, rec.IsNewUser)
	assert.Equal(t, 1, rec.LoginCount)
}

func TestAppLedgerRepository_ListApps(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewAppLedgerRepository(db, logger.NewLogger())
	ctx := context.Background()

	ada := seedUser(t, db, "Ada", "ada@example.com")
	grace := seedUser(t, db, "Grace", "grace@example.com")

	busy, err := ledger.FindOrCreate(ctx, "busy-app", "", "")
	require.NoError(t, err)
	_, err = ledger.FindOrCreate(ctx, "idle-app", "", "")
	require.NoError(t, err)

	_, err = ledger.RecordLogin(ctx, busy.ID, ada.ID)
	require.NoError(t, err)
	_, err = ledger.RecordLogin(ctx, busy.ID, grace.ID)
	require.NoError(t, err)
	// Repeat logins do not inflate the distinct-user count
	_, err = ledger.RecordLogin(ctx, busy.ID, ada.ID)
	require.NoError(t, err)

	apps, err := ledger.ListApps(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 2)

	assert.Equal(t, "busy-app", apps[0].App.Name)
	assert.Equal(t, int64(2), apps[0].UserCount)
	assert.Equal(t, "idle-app", apps[1].App.Name)
	assert.Equal(t, int64(0), apps[1].UserCount)
}

func TestAppLedgerRepository_UsageQueries(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewAppLedgerRepository(db, logger.NewLogger())
	ctx := context.Background()

	ada := seedUser(t, db, "Ada", "ada@example.com")
	a, err := ledger.FindOrCreate(ctx, "demo-app", "", "")
	require.NoError(t, err)
	b, err := ledger.FindOrCreate(ctx, "other-app", "", "")
	require.NoError(t, err)

	_, err = ledger.RecordLogin(ctx, a.ID, ada.ID)
	require.NoError(t, err)
	_, err = ledger.RecordLogin(ctx, b.ID, ada.ID)
	require.NoError(t, err)
	_, err = ledger.RecordLogin(ctx, b.ID, ada.ID)
	require.NoError(t, err)

	users, err := ledger.GetUsersByApp(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, ada.ID, users[0].UserID)
	assert.Equal(t, "Ada", users[0].UserName)
	assert.Equal(t, "ada@example.com", users[0].UserEmail)
	assert.Equal(t, 1, users[0].LoginCount)

	apps, err := ledger.GetAppsByUser(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, apps, 2)

	byName := map[string]int{}
	for _, summary := range apps {
		byName[summary.App.Name] = summary.LoginCount
	}
	assert.Equal(t, 1, byName["demo-app"])
	assert.Equal(t, 2, byName["other-app"])
}

func TestAppLedgerRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewAppLedgerRepository(db, logger.NewLogger())
	ctx := context.Background()

	ada := seedUser(t, db, "Ada", "ada@example.com")
	a, err := ledger.FindOrCreate(ctx, "demo-app", "", "")
	require.NoError(t, err)
	_, err = ledger.RecordLogin(ctx, a.ID, ada.ID)
	require.NoError(t, err)

	require.NoError(t, ledger.Delete(ctx, a.ID))

	gone, err := ledger.GetByName(ctx, "demo-app")
	require.NoError(t, err)
	assert.Nil(t, gone)

	apps, err := ledger.GetAppsByUser(ctx, ada.ID)
	require.NoError(t, err)
	assert.Empty(t, apps)

	err = ledger.Delete(ctx, a.ID)
	require.Error(t, err)
	assert.True(t, sharederrors.IsNotFoundError(err))
}
