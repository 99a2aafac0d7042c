package usecases

import (
	"context"
	"time"

	"authrelay/internal/infrastructure/auth"
	"authrelay/internal/shared/constants"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

type InitiateOAuthLoginCommand struct {
	Provider    string
	RedirectURI string
	App         AppContext
}

type InitiateOAuthLoginResult struct {
	AuthURL string
}

type InitiateOAuthLoginUseCase struct {
	providers map[string]auth.Provider
	logger    logger.Interface
}

func NewInitiateOAuthLoginUseCase(providers map[string]auth.Provider, logger logger.Interface) *InitiateOAuthLoginUseCase {
	return &InitiateOAuthLoginUseCase{
		providers: providers,
		logger:    logger,
	}
}

func (uc *InitiateOAuthLoginUseCase) Execute(ctx context.Context, cmd InitiateOAuthLoginCommand) (*InitiateOAuthLoginResult, error) {
	provider, ok := uc.providers[cmd.Provider]
	if !ok {
		return nil, sharederrors.NewNotFoundError("unknown identity provider: " + cmd.Provider)
	}

	state := &auth.OAuthState{
		RedirectURI:    cmd.RedirectURI,
		AppName:        cmd.App.Name,
		AppDisplayName: cmd.App.DisplayName,
		AppDescription: cmd.App.Description,
		Timestamp:      time.Now().UnixMilli(),
		Source:         constants.StateSourceCrossDomain,
	}

	encoded, err := auth.EncodeState(state)
	if err != nil {
		uc.logger.Errorw("failed to encode oauth state", "provider", cmd.Provider, "error", err)
		return nil, sharederrors.NewInternalError("failed to prepare login")
	}

	uc.logger.Infow("oauth login initiated", "provider", cmd.Provider, "app", cmd.App.Name)

	return &InitiateOAuthLoginResult{
		AuthURL: provider.GetAuthURL(encoded),
	}, nil
}
