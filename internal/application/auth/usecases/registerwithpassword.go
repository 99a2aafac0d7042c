package usecases

import (
	"context"
	"fmt"

	"authrelay/internal/domain/app"
	"authrelay/internal/domain/user"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

type RegisterWithPasswordCommand struct {
	Name     string
	Email    string
	Password string
	App      AppContext
}

type RegisterWithPasswordResult struct {
	User  *user.User
	Token string
	Usage *UsageOutcome
}

type RegisterWithPasswordUseCase struct {
	userRepo  user.Repository
	ledger    app.Ledger
	hasher    PasswordHasher
	tokens    TokenIssuer
	minLength int
	logger    logger.Interface
}

func NewRegisterWithPasswordUseCase(
	userRepo user.Repository,
	ledger app.Ledger,
	hasher PasswordHasher,
	tokens TokenIssuer,
	minPasswordLength int,
	logger logger.Interface,
) *RegisterWithPasswordUseCase {
	return &RegisterWithPasswordUseCase{
		userRepo:  userRepo,
		ledger:    ledger,
		hasher:    hasher,
		tokens:    tokens,
		minLength: minPasswordLength,
		logger:    logger,
	}
}

func (uc *RegisterWithPasswordUseCase) Execute(ctx context.Context, cmd RegisterWithPasswordCommand) (*RegisterWithPasswordResult, error) {
	if len(cmd.Password) < uc.minLength {
		return nil, sharederrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters long", uc.minLength))
	}

	// Cheap existence check before the bcrypt work; the unique index
	// below still decides any race.
	taken, err := uc.userRepo.ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		uc.logger.Errorw("failed to check email", "error", err)
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, sharederrors.NewAlreadyRegisteredError()
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := user.NewLocalUser(cmd.Name, cmd.Email, hash)
	if err != nil {
		return nil, sharederrors.NewValidationError(err.Error())
	}

	// The unique index on email decides the race between concurrent
	// registrations; Create surfaces the loser as already registered.
	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	token, err := uc.tokens.IssueInteractive(newUser)
	if err != nil {
		uc.logger.Errorw("failed to issue token", "user_id", newUser.ID, "error", err)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	result := &RegisterWithPasswordResult{
		User:  newUser,
		Token: token,
	}

	if cmd.App.HasApp() {
		usage, err := trackAppLogin(ctx, uc.ledger, cmd.App, newUser.ID)
		if err != nil {
			uc.logger.Warnw("failed to record app login",
				"user_id", newUser.ID, "app", cmd.App.Name, "error", err)
		} else {
			result.Usage = usage
		}
	}

	uc.logger.Infow("user registered", "user_id", newUser.ID, "app", cmd.App.Name)
	return result, nil
}
