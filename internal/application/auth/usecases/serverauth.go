package usecases

import (
	"context"
	"fmt"

	"authrelay/internal/domain/app"
	"authrelay/internal/domain/user"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

// ServerAuthCommand is a non-interactive identity assertion made by
// a trusted backend on behalf of one of its users. The backend vouches
// for the identity, so no password is exchanged; unknown emails get an
// account created on the spot.
type ServerAuthCommand struct {
	Email    string
	Name     string
	Provider string
	App      AppContext
}

type ServerAuthResult struct {
	User  *user.User
	Token string
	Usage *UsageOutcome
}

type ServerAuthUseCase struct {
	userRepo user.Repository
	ledger   app.Ledger
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewServerAuthUseCase(
	userRepo user.Repository,
	ledger app.Ledger,
	tokens TokenIssuer,
	logger logger.Interface,
) *ServerAuthUseCase {
	return &ServerAuthUseCase{
		userRepo: userRepo,
		ledger:   ledger,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *ServerAuthUseCase) Execute(ctx context.Context, cmd ServerAuthCommand) (*ServerAuthResult, error) {
	resolved, err := uc.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if resolved == nil {
		created, err := user.NewServerUser(cmd.Name, cmd.Email, cmd.Provider)
		if err != nil {
			return nil, sharederrors.NewValidationError(err.Error())
		}
		if err := uc.userRepo.Create(ctx, created); err != nil {
			// A concurrent assertion for the same email may have won
			// the insert; the unique constraint is the arbiter.
			if existing, getErr := uc.userRepo.GetByEmail(ctx, cmd.Email); getErr == nil && existing != nil {
				resolved = existing
			} else {
				uc.logger.Errorw("failed to create user", "email", cmd.Email, "error", err)
				return nil, fmt.Errorf("failed to create user: %w", err)
			}
		} else {
			resolved = created
			uc.logger.Infow("user created via server auth",
				"user_id", resolved.ID, "provider", resolved.Provider)
		}
	}

	// Server-issued tokens are shorter lived than interactive ones
	token, err := uc.tokens.IssueServer(resolved)
	if err != nil {
		uc.logger.Errorw("failed to issue token", "user_id", resolved.ID, "error", err)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	result := &ServerAuthResult{
		User:  resolved,
		Token: token,
	}

	if cmd.App.HasApp() {
		usage, err := trackAppLogin(ctx, uc.ledger, cmd.App, resolved.ID)
		if err != nil {
			uc.logger.Warnw("failed to record app login",
				"user_id", resolved.ID, "app", cmd.App.Name, "error", err)
		} else {
			result.Usage = usage
		}
	}

	uc.logger.Infow("server auth completed", "user_id", resolved.ID, "app", cmd.App.Name)
	return result, nil
}
