package usecases

import (
	"context"
	"fmt"
	"time"

	"authrelay/internal/domain/app"
	"authrelay/internal/domain/user"
	"authrelay/internal/infrastructure/auth"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

type HandleOAuthCallbackCommand struct {
	Provider  string
	Code      string
	State     string
	IPAddress string
	UserAgent string
}

type HandleOAuthCallbackResult struct {
	User    *user.User
	Token   string
	Session *user.Session
	// State is the decoded request context, nil when the state
	// parameter was missing or unreadable.
	State *auth.OAuthState
	Usage *UsageOutcome
}

// ReplayGuard marks state values as consumed so a callback URL cannot
// be replayed. Consume reports whether this is the first use.
type ReplayGuard interface {
	Consume(ctx context.Context, state string) (bool, error)
}

type HandleOAuthCallbackUseCase struct {
	providers   map[string]auth.Provider
	userRepo    user.Repository
	sessionRepo user.SessionRepository
	ledger      app.Ledger
	tokens      TokenIssuer
	replayGuard ReplayGuard
	sessionTTL  time.Duration
	logger      logger.Interface
}

func NewHandleOAuthCallbackUseCase(
	providers map[string]auth.Provider,
	userRepo user.Repository,
	sessionRepo user.SessionRepository,
	ledger app.Ledger,
	tokens TokenIssuer,
	sessionTTL time.Duration,
	logger logger.Interface,
) *HandleOAuthCallbackUseCase {
	return &HandleOAuthCallbackUseCase{
		providers:   providers,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		ledger:      ledger,
		tokens:      tokens,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

// SetReplayGuard enables one-time state enforcement. Without a guard
// the state parameter is accepted as-is.
func (uc *HandleOAuthCallbackUseCase) SetReplayGuard(guard ReplayGuard) {
	uc.replayGuard = guard
}

func (uc *HandleOAuthCallbackUseCase) Execute(ctx context.Context, cmd HandleOAuthCallbackCommand) (*HandleOAuthCallbackResult, error) {
	provider, ok := uc.providers[cmd.Provider]
	if !ok {
		return nil, sharederrors.NewNotFoundError("unknown identity provider: " + cmd.Provider)
	}

	// An unreadable state falls back to the plain session flow
	state, err := auth.DecodeState(cmd.State)
	if err != nil {
		uc.logger.Warnw("could not decode oauth state, using session flow",
			"provider", cmd.Provider, "error", err)
		state = nil
	}

	if uc.replayGuard != nil && state != nil {
		firstUse, err := uc.replayGuard.Consume(ctx, cmd.State)
		if err != nil {
			// A guard outage does not fail the login
			uc.logger.Warnw("replay guard unavailable", "error", err)
		} else if !firstUse {
			uc.logger.Warnw("oauth state replayed", "provider", cmd.Provider)
			return nil, sharederrors.NewAuthenticationRequiredError()
		}
	}

	accessToken, err := provider.ExchangeCode(ctx, cmd.Code)
	if err != nil {
		uc.logger.Errorw("code exchange failed", "provider", cmd.Provider, "error", err)
		return nil, sharederrors.NewIdentityExchangeError(cmd.Provider)
	}

	info, err := provider.GetUserInfo(ctx, accessToken)
	if err != nil {
		uc.logger.Errorw("profile fetch failed", "provider", cmd.Provider, "error", err)
		return nil, sharederrors.NewIdentityExchangeError(cmd.Provider)
	}

	resolved, err := uc.resolveUser(ctx, info)
	if err != nil {
		return nil, err
	}

	token, err := uc.tokens.IssueInteractive(resolved)
	if err != nil {
		uc.logger.Errorw("failed to issue token", "user_id", resolved.ID, "error", err)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	session, err := user.NewSession(resolved.ID, cmd.IPAddress, cmd.UserAgent, time.Now().UTC().Add(uc.sessionTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	result := &HandleOAuthCallbackResult{
		User:    resolved,
		Token:   token,
		Session: session,
		State:   state,
	}

	if state != nil && state.AppName != "" {
		usage, err := trackAppLogin(ctx, uc.ledger, AppContext{
			Name:        state.AppName,
			DisplayName: state.AppDisplayName,
			Description: state.AppDescription,
		}, resolved.ID)
		if err != nil {
			uc.logger.Warnw("failed to record app login",
				"user_id", resolved.ID, "app", state.AppName, "error", err)
		} else {
			result.Usage = usage
		}
	}

	uc.logger.Infow("oauth login completed",
		"provider", cmd.Provider, "user_id", resolved.ID)

	return result, nil
}

// resolveUser finds the account for a provider identity, linking the
// provider to an existing account with the same email, or creating a
// fresh account.
func (uc *HandleOAuthCallbackUseCase) resolveUser(ctx context.Context, info *auth.ProviderUserInfo) (*user.User, error) {
	existing, err := uc.userRepo.GetByProvider(ctx, info.Provider, info.ProviderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	byEmail, err := uc.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if byEmail != nil {
		byEmail.Provider = info.Provider
		byEmail.ProviderID = info.ProviderID
		if len(info.RawProfile) > 0 {
			byEmail.RawProfile = info.RawProfile
		}
		byEmail.UpdatedAt = time.Now().UTC()
		if err := uc.userRepo.Update(ctx, byEmail); err != nil {
			return nil, err
		}
		uc.logger.Infow("linked provider to existing account",
			"user_id", byEmail.ID, "provider", info.Provider)
		return byEmail, nil
	}

	created, err := user.NewProviderUser(info.Name, info.Email, info.Provider, info.ProviderID, info.RawProfile)
	if err != nil {
		return nil, sharederrors.NewValidationError(err.Error())
	}
	if err := uc.userRepo.Create(ctx, created); err != nil {
		// A concurrent first login for the same identity may have won
		// the insert; the unique constraint is the arbiter.
		if winner, getErr := uc.userRepo.GetByProvider(ctx, info.Provider, info.ProviderID); getErr == nil && winner != nil {
			return winner, nil
		}
		return nil, err
	}

	return created, nil
}
