package usecases

import (
	"context"

	"authrelay/internal/domain/user"
	"authrelay/internal/shared/logger"
)

type LogoutCommand struct {
	SessionID string
}

type LogoutUseCase struct {
	sessionRepo user.SessionRepository
	logger      logger.Interface
}

func NewLogoutUseCase(sessionRepo user.SessionRepository, logger logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Execute removes the session. A missing session is not an error;
// logout is idempotent.
func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) error {
	if cmd.SessionID == "" {
		return nil
	}

	if err := uc.sessionRepo.Delete(ctx, cmd.SessionID); err != nil {
		uc.logger.Warnw("failed to delete session", "error", err)
		return err
	}

	return nil
}
