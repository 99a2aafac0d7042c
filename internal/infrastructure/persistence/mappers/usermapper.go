package mappers

import (
	"gorm.io/datatypes"

	"authrelay/internal/domain/user"
	"authrelay/internal/infrastructure/persistence/models"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *UserMapper) ToEntity(model *models.UserModel) *user.User {
	if model == nil {
		return nil
	}

	var providerID string
	if model.ProviderID != nil {
		providerID = *model.ProviderID
	}

	return &user.User{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Provider:     model.Provider,
		ProviderID:   providerID,
		Role:         user.Role(model.Role),
		RawProfile:   []byte(model.RawProfile),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// ToModel converts a domain entity to a persistence model
func (m *UserMapper) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}

	var raw datatypes.JSON
	if len(entity.RawProfile) > 0 {
		raw = datatypes.JSON(entity.RawProfile)
	}

	// Accounts without an external identity persist NULL so the
	// (provider, provider_id) unique index never collides them.
	var providerID *string
	if entity.ProviderID != "" {
		id := entity.ProviderID
		providerID = &id
	}

	return &models.UserModel{
		ID:           entity.ID,
		Name:         entity.Name,
		Email:        entity.Email,
		PasswordHash: entity.PasswordHash,
		Provider:     entity.Provider,
		ProviderID:   providerID,
		Role:         int(entity.Role),
		RawProfile:   raw,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

// ToEntities converts multiple persistence models to domain entities
func (m *UserMapper) ToEntities(modelList []*models.UserModel) []*user.User {
	entities := make([]*user.User, 0, len(modelList))
	for _, model := range modelList {
		entities = append(entities, m.ToEntity(model))
	}
	return entities
}
