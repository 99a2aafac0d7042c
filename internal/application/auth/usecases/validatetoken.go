package usecases

import (
	"context"
	"fmt"

	"authrelay/internal/domain/user"
	"authrelay/internal/infrastructure/auth"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

type ValidateTokenCommand struct {
	Token string
}

type ValidateTokenResult struct {
	Claims *auth.Claims
	User   *user.User
}

type ValidateTokenUseCase struct {
	userRepo user.Repository
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewValidateTokenUseCase(userRepo user.Repository, tokens TokenIssuer, logger logger.Interface) *ValidateTokenUseCase {
	return &ValidateTokenUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Execute checks the token signature and expiry, then confirms the
// subject still exists.
func (uc *ValidateTokenUseCase) Execute(ctx context.Context, cmd ValidateTokenCommand) (*ValidateTokenResult, error) {
	claims, err := uc.tokens.Verify(cmd.Token)
	if err != nil {
		return nil, err
	}

	subject, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		uc.logger.Errorw("failed to load token subject", "user_id", claims.UserID, "error", err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if subject == nil {
		return nil, sharederrors.NewTokenMalformedError()
	}

	return &ValidateTokenResult{
		Claims: claims,
		User:   subject,
	}, nil
}
