package usecases

import (
	"context"

	"authrelay/internal/domain/app"
	"authrelay/internal/shared/logger"
)

type DeleteAppCommand struct {
	AppID uint
}

type DeleteAppUseCase struct {
	ledger app.Ledger
	logger logger.Interface
}

func NewDeleteAppUseCase(ledger app.Ledger, logger logger.Interface) *DeleteAppUseCase {
	return &DeleteAppUseCase{
		ledger: ledger,
		logger: logger,
	}
}

func (uc *DeleteAppUseCase) Execute(ctx context.Context, cmd DeleteAppCommand) error {
	if err := uc.ledger.Delete(ctx, cmd.AppID); err != nil {
		return err
	}

	uc.logger.Infow("app deleted", "app_id", cmd.AppID)
	return nil
}
