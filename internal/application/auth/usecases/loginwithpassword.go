package usecases

import (
	"context"
	"fmt"

	"authrelay/internal/domain/app"
	"authrelay/internal/domain/user"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

type LoginWithPasswordCommand struct {
	Email    string
	Password string
	App      AppContext
}

type LoginWithPasswordResult struct {
	User  *user.User
	Token string
	Usage *UsageOutcome
}

type LoginWithPasswordUseCase struct {
	userRepo user.Repository
	ledger   app.Ledger
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewLoginWithPasswordUseCase(
	userRepo user.Repository,
	ledger app.Ledger,
	hasher PasswordHasher,
	tokens TokenIssuer,
	logger logger.Interface,
) *LoginWithPasswordUseCase {
	return &LoginWithPasswordUseCase{
		userRepo: userRepo,
		ledger:   ledger,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *LoginWithPasswordUseCase) Execute(ctx context.Context, cmd LoginWithPasswordCommand) (*LoginWithPasswordResult, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Unknown email and wrong password produce the same error so the
	// response does not reveal which accounts exist.
	if existing == nil {
		return nil, sharederrors.NewInvalidCredentialsError()
	}

	// Accounts created through an identity provider have no password
	if existing.PasswordHash == nil {
		return nil, sharederrors.NewWrongProviderError(existing.Provider)
	}

	if err := uc.hasher.Verify(cmd.Password, *existing.PasswordHash); err != nil {
		return nil, sharederrors.NewInvalidCredentialsError()
	}

	token, err := uc.tokens.IssueInteractive(existing)
	if err != nil {
		uc.logger.Errorw("failed to issue token", "user_id", existing.ID, "error", err)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	result := &LoginWithPasswordResult{
		User:  existing,
		Token: token,
	}

	if cmd.App.HasApp() {
		usage, err := trackAppLogin(ctx, uc.ledger, cmd.App, existing.ID)
		if err != nil {
			// Ledger trouble must not block a valid login
			uc.logger.Warnw("failed to record app login",
				"user_id", existing.ID, "app", cmd.App.Name, "error", err)
		} else {
			result.Usage = usage
		}
	}

	uc.logger.Infow("user logged in", "user_id", existing.ID, "app", cmd.App.Name)
	return result, nil
}
