package usecases

import (
	"context"

	"authrelay/internal/domain/app"
	"authrelay/internal/domain/user"
	"authrelay/internal/infrastructure/auth"
)

// TokenIssuer signs and validates bearer tokens.
type TokenIssuer interface {
	IssueInteractive(u *user.User) (string, error)
	IssueServer(u *user.User) (string, error)
	Verify(tokenString string) (*auth.Claims, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// AppContext identifies the client application a login came from.
// Zero value means the login was made directly against the broker.
type AppContext struct {
	Name        string
	DisplayName string
	Description string
}

// HasApp reports whether the login carries an app identity.
func (a AppContext) HasApp() bool {
	return a.Name != ""
}

// UsageOutcome describes what the ledger recorded for a login, when
// an app identity was present.
type UsageOutcome struct {
	App        *app.App
	IsNewUser  bool
	LoginCount int
}

// trackAppLogin resolves the app and records the login. Failures here
// never fail the login itself; the caller logs and continues.
func trackAppLogin(ctx context.Context, ledger app.Ledger, appCtx AppContext, userID uint) (*UsageOutcome, error) {
	resolved, err := ledger.FindOrCreate(ctx, appCtx.Name, appCtx.DisplayName, appCtx.Description)
	if err != nil {
		return nil, err
	}

	record, err := ledger.RecordLogin(ctx, resolved.ID, userID)
	if err != nil {
		return nil, err
	}

	return &UsageOutcome{
		App:        resolved,
		IsNewUser:  record.IsNewUser,
		LoginCount: record.LoginCount,
	}, nil
}
