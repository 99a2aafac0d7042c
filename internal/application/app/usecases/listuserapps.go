package usecases

import (
	"context"

	"authrelay/internal/domain/app"
	"authrelay/internal/shared/logger"
)

type ListUserAppsCommand struct {
	UserID uint
}

type ListUserAppsResult struct {
	Apps []*app.AppUsageSummary
}

type ListUserAppsUseCase struct {
	ledger app.Ledger
	logger logger.Interface
}

func NewListUserAppsUseCase(ledger app.Ledger, logger logger.Interface) *ListUserAppsUseCase {
	return &ListUserAppsUseCase{
		ledger: ledger,
		logger: logger,
	}
}

func (uc *ListUserAppsUseCase) Execute(ctx context.Context, cmd ListUserAppsCommand) (*ListUserAppsResult, error) {
	apps, err := uc.ledger.GetAppsByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	return &ListUserAppsResult{Apps: apps}, nil
}
