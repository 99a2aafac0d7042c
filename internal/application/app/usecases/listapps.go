package usecases

import (
	"context"

	"authrelay/internal/domain/app"
	"authrelay/internal/shared/logger"
)

type ListAppsResult struct {
	Apps []*app.AppWithStats
}

type ListAppsUseCase struct {
	ledger app.Ledger
	logger logger.Interface
}

func NewListAppsUseCase(ledger app.Ledger, logger logger.Interface) *ListAppsUseCase {
	return &ListAppsUseCase{
		ledger: ledger,
		logger: logger,
	}
}

func (uc *ListAppsUseCase) Execute(ctx context.Context) (*ListAppsResult, error) {
	apps, err := uc.ledger.ListApps(ctx)
	if err != nil {
		return nil, err
	}

	return &ListAppsResult{Apps: apps}, nil
}
