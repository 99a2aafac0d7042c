package usecases

import (
	"context"

	"authrelay/internal/domain/app"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
	"authrelay/internal/shared/utils"
)

type CreateAppCommand struct {
	Name        string
	DisplayName string
	Description string
}

type CreateAppResult struct {
	App *app.App
}

// CreateAppUseCase is the find-or-create registration variant: an
// existing app is returned unchanged, metadata included.
type CreateAppUseCase struct {
	ledger app.Ledger
	logger logger.Interface
}

func NewCreateAppUseCase(ledger app.Ledger, logger logger.Interface) *CreateAppUseCase {
	return &CreateAppUseCase{
		ledger: ledger,
		logger: logger,
	}
}

func (uc *CreateAppUseCase) Execute(ctx context.Context, cmd CreateAppCommand) (*CreateAppResult, error) {
	if !utils.IsValidSlug(cmd.Name) {
		return nil, sharederrors.NewValidationError(
			"app name must contain only lowercase letters, digits, '-' and '_'")
	}

	created, err := uc.ledger.FindOrCreate(ctx,
		cmd.Name,
		utils.SanitizeText(cmd.DisplayName),
		utils.SanitizeText(cmd.Description),
	)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("app resolved", "app", created.Name)
	return &CreateAppResult{App: created}, nil
}
