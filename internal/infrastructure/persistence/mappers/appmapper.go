package mappers

import (
	"authrelay/internal/domain/app"
	"authrelay/internal/infrastructure/persistence/models"
)

// AppMapper handles the conversion between domain entities and persistence models
type AppMapper struct{}

func NewAppMapper() *AppMapper {
	return &AppMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *AppMapper) ToEntity(model *models.AppModel) *app.App {
	if model == nil {
		return nil
	}

	return &app.App{
		ID:          model.ID,
		Name:        model.Name,
		DisplayName: model.DisplayName,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// ToModel converts a domain entity to a persistence model
func (m *AppMapper) ToModel(entity *app.App) *models.AppModel {
	if entity == nil {
		return nil
	}

	return &models.AppModel{
		ID:          entity.ID,
		Name:        entity.Name,
		DisplayName: entity.DisplayName,
		Description: entity.Description,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

// ToUsageEntity converts a usage row to its domain form
func (m *AppMapper) ToUsageEntity(model *models.AppUsageModel) *app.Usage {
	if model == nil {
		return nil
	}

	return &app.Usage{
		ID:           model.ID,
		AppID:        model.AppID,
		UserID:       model.UserID,
		FirstLoginAt: model.FirstLoginAt,
		LastLoginAt:  model.LastLoginAt,
		LoginCount:   model.LoginCount,
	}
}
