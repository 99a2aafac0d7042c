package usecases

import (
	"context"

	"authrelay/internal/domain/app"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

type ListAppUsersCommand struct {
	AppID uint
}

type ListAppUsersResult struct {
	App   *app.App
	Users []*app.UserUsage
}

type ListAppUsersUseCase struct {
	ledger app.Ledger
	logger logger.Interface
}

func NewListAppUsersUseCase(ledger app.Ledger, logger logger.Interface) *ListAppUsersUseCase {
	return &ListAppUsersUseCase{
		ledger: ledger,
		logger: logger,
	}
}

func (uc *ListAppUsersUseCase) Execute(ctx context.Context, cmd ListAppUsersCommand) (*ListAppUsersResult, error) {
	resolved, err := uc.ledger.GetByID(ctx, cmd.AppID)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return nil, sharederrors.NewNotFoundError("app not found")
	}

	users, err := uc.ledger.GetUsersByApp(ctx, cmd.AppID)
	if err != nil {
		return nil, err
	}

	return &ListAppUsersResult{
		App:   resolved,
		Users: users,
	}, nil
}
