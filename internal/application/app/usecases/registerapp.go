package usecases

import (
	"context"

	"authrelay/internal/domain/app"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
	"authrelay/internal/shared/utils"
)

type RegisterAppCommand struct {
	Name        string
	DisplayName string
	Description string
}

type RegisterAppResult struct {
	App   *app.App
	IsNew bool
}

type RegisterAppUseCase struct {
	ledger app.Ledger
	logger logger.Interface
}

func NewRegisterAppUseCase(ledger app.Ledger, logger logger.Interface) *RegisterAppUseCase {
	return &RegisterAppUseCase{
		ledger: ledger,
		logger: logger,
	}
}

func (uc *RegisterAppUseCase) Execute(ctx context.Context, cmd RegisterAppCommand) (*RegisterAppResult, error) {
	if !utils.IsValidSlug(cmd.Name) {
		return nil, sharederrors.NewValidationError(
			"app name must contain only lowercase letters, digits, '-' and '_'")
	}

	result, err := uc.ledger.RegisterOrFind(ctx,
		cmd.Name,
		utils.SanitizeText(cmd.DisplayName),
		utils.SanitizeText(cmd.Description),
	)
	if err != nil {
		return nil, err
	}

	if result.IsNew {
		uc.logger.Infow("app registered", "app", cmd.Name)
	}

	return &RegisterAppResult{
		App:   result.App,
		IsNew: result.IsNew,
	}, nil
}
