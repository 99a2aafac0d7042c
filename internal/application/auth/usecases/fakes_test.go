package usecases

import (
	"context"
	"fmt"
	"strings"

	"authrelay/internal/domain/app"
	"authrelay/internal/domain/user"
	"authrelay/internal/infrastructure/auth"
	sharederrors "authrelay/internal/shared/errors"
)

type fakeUserRepo struct {
	users  map[uint]*user.User
	nextID uint
	failWith error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*user.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if r.failWith != nil {
		return r.failWith
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return sharederrors.NewAlreadyRegisteredError()
		}
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByProvider(ctx context.Context, provider, providerID string) (*user.User, error) {
	for _, u := range r.users {
		if u.Provider == provider && u.ProviderID == providerID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id uint, role user.Role) error {
	u, ok := r.users[id]
	if !ok {
		return sharederrors.NewNotFoundError("user not found")
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

type usageKey struct {
	appID  uint
	userID uint
}

type fakeLedger struct {
	apps       map[string]*app.App
	usages     map[usageKey]int
	nextID     uint
	failRecord bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		apps:   map[string]*app.App{},
		usages: map[usageKey]int{},
		nextID: 1,
	}
}

func (l *fakeLedger) GetByID(ctx context.Context, id uint) (*app.App, error) {
	for _, a := range l.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) GetByName(ctx context.Context, name string) (*app.App, error) {
	return l.apps[name], nil
}

func (l *fakeLedger) FindOrCreate(ctx context.Context, name, displayName, description string) (*app.App, error) {
	if existing := l.apps[name]; existing != nil {
		return existing, nil
	}
	created, err := app.NewApp(name, displayName, description)
	if err != nil {
		return nil, err
	}
	created.ID = l.nextID
	l.nextID++
	l.apps[name] = created
	return created, nil
}

func (l *fakeLedger) RegisterOrFind(ctx context.Context, name, displayName, description string) (*app.RegisterResult, error) {
	if existing := l.apps[name]; existing != nil {
		if displayName != "" {
			existing.DisplayName = displayName
		}
		if description != "" {
			existing.Description = description
		}
		return &app.RegisterResult{App: existing, IsNew: false}, nil
	}
	created, err := l.FindOrCreate(ctx, name, displayName, description)
	if err != nil {
		return nil, err
	}
	return &app.RegisterResult{App: created, IsNew: true}, nil
}

func (l *fakeLedger) RecordLogin(ctx context.Context, appID, userID uint) (*app.LoginRecord, error) {
	if l.failRecord {
		return nil, fmt.Errorf("ledger unavailable")
	}
	key := usageKey{appID: appID, userID: userID}
	l.usages[key]++
	return &app.LoginRecord{
		IsNewUser:  l.usages[key] == 1,
		LoginCount: l.usages[key],
	}, nil
}

func (l *fakeLedger) ListApps(ctx context.Context) ([]*app.AppWithStats, error) {
	return nil, nil
}

func (l *fakeLedger) GetUsersByApp(ctx context.Context, appID uint) ([]*app.UserUsage, error) {
	return nil, nil
}

func (l *fakeLedger) GetAppsByUser(ctx context.Context, userID uint) ([]*app.AppUsageSummary, error) {
	return nil, nil
}

func (l *fakeLedger) Delete(ctx context.Context, id uint) error {
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*user.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*user.Session{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *user.Session) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (*user.Session, error) {
	return r.sessions[id], nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, s *user.Session) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(ctx context.Context, userID uint) error {
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) error {
	return nil
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("password verification failed")
	}
	return nil
}

type fakeProvider struct {
	name        string
	exchangeErr error
	infoErr     error
	info        *auth.ProviderUserInfo
	lastState   string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) GetAuthURL(state string) string {
	p.lastState = state
	return "https://provider.example.com/authorize?state=" + state
}

func (p *fakeProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	if p.exchangeErr != nil {
		return "", p.exchangeErr
	}
	return "provider-access-token", nil
}

func (p *fakeProvider) GetUserInfo(ctx context.Context, accessToken string) (*auth.ProviderUserInfo, error) {
	if p.infoErr != nil {
		return nil, p.infoErr
	}
	return p.info, nil
}
