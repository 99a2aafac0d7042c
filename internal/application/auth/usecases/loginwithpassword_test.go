package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authrelay/internal/domain/user"
	"authrelay/internal/infrastructure/auth"
	"authrelay/internal/shared/config"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

func testTokenService() *auth.JWTService {
	return auth.NewJWTService(&config.JWTConfig{
		Secret:           "test-secret",
		InteractiveDays:  30,
		ServerToServerHr: 24,
	})
}

func seedLocalUser(t *testing.T, repo *fakeUserRepo, name, email, password string) *user.User {
	t.Helper()

	u, err := user.NewLocalUser(name, email, "hashed:"+password)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLoginWithPassword_Success(t *testing.T) {
	repo := newFakeUserRepo()
	ledger := newFakeLedger()
	uc := NewLoginWithPasswordUseCase(repo, ledger, stubHasher{}, testTokenService(), logger.NewLogger())

	seeded := seedLocalUser(t, repo, "Ada", "ada@example.com", "secret123")

	result, err := uc.Execute(context.Background(), LoginWithPasswordCommand{
		Email:    "ada@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)
	assert.Nil(t, result.Usage)

	claims, err := testTokenService().Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.UserID)
}

func TestLoginWithPassword_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewLoginWithPasswordUseCase(repo, newFakeLedger(), stubHasher{}, testTokenService(), logger.NewLogger())

	seedLocalUser(t, repo, "Ada", "ada@example.com", "secret123")

	_, unknownErr := uc.Execute(context.Background(), LoginWithPasswordCommand{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, unknownErr)

	_, wrongErr := uc.Execute(context.Background(), LoginWithPasswordCommand{
		Email:    "ada@example.com",
		Password: "not-the-password",
	})
	require.Error(t, wrongErr)

	// Both failures must be indistinguishable to the caller
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t,
		sharederrors.GetAuthError(unknownErr).Type,
		sharederrors.GetAuthError(wrongErr).Type)
}

func TestLoginWithPassword_ProviderAccountNamesProvider(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewLoginWithPasswordUseCase(repo, newFakeLedger(), stubHasher{}, testTokenService(), logger.NewLogger())

	u, err := user.NewProviderUser("Grace", "grace@example.com", "google", "g-1", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))

	_, err = uc.Execute(context.Background(), LoginWithPasswordCommand{
		Email:    "grace@example.com",
		Password: "anything",
	})
	require.Error(t, err)

	authErr := sharederrors.GetAuthError(err)
	require.NotNil(t, authErr)
	assert.Equal(t, sharederrors.ErrorTypeWrongProvider, authErr.Type)
	assert.Equal(t, "google", authErr.Provider)
}

func TestLoginWithPassword_RecordsAppUsage(t *testing.T) {
	repo := newFakeUserRepo()
	ledger := newFakeLedger()
	uc := NewLoginWithPasswordUseCase(repo, ledger, stubHasher{}, testTokenService(), logger.NewLogger())

	seedLocalUser(t, repo, "Ada", "ada@example.com", "secret123")

	cmd := LoginWithPasswordCommand{
		Email:    "ada@example.com",
		Password: "secret123",
		App:      AppContext{Name: "demo-app", DisplayName: "Demo"},
	}

	first, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	require.NotNil(t, first.Usage)
	assert.True(t, first.Usage.IsNewUser)
	assert.Equal(t, 1, first.Usage.LoginCount)
	assert.Equal(t, "demo-app", first.Usage.App.Name)

	second, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	require.NotNil(t, second.Usage)
	assert.False(t, second.Usage.IsNewUser)
	assert.Equal(t, 2, second.Usage.LoginCount)
}

func TestLoginWithPassword_LedgerFailureDoesNotBlockLogin(t *testing.T) {
	repo := newFakeUserRepo()
	ledger := newFakeLedger()
	ledger.failRecord = true
	uc := NewLoginWithPasswordUseCase(repo, ledger, stubHasher{}, testTokenService(), logger.NewLogger())

	seedLocalUser(t, repo, "Ada", "ada@example.com", "secret123")

	result, err := uc.Execute(context.Background(), LoginWithPasswordCommand{
		Email:    "ada@example.com",
		Password: "secret123",
		App:      AppContext{Name: "demo-app"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Nil(t, result.Usage)
}
