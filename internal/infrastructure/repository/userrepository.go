package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"authrelay/internal/domain/user"
	"authrelay/internal/infrastructure/persistence/mappers"
	"authrelay/internal/infrastructure/persistence/models"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

// UserRepository implements user.Repository on gorm.
type UserRepository struct {
	db     *gorm.DB
	mapper *mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, userEntity *user.User) error {
	model := r.mapper.ToModel(userEntity)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if sharederrors.IsDuplicateError(err) {
			return sharederrors.NewAlreadyRegisteredError()
		}
		r.logger.Errorw("failed to create user in database", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	userEntity.ID = model.ID

	r.logger.Infow("user created", "id", model.ID, "provider", model.Provider)
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel

	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// GetByProvider retrieves a user by provider name and provider-issued ID
func (r *UserRepository) GetByProvider(ctx context.Context, provider, providerID string) (*user.User, error) {
	var model models.UserModel

	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by provider", "provider", provider, "error", err)
		return nil, fmt.Errorf("failed to get user by provider: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, userEntity *user.User) error {
	if userEntity.ID == 0 {
		return fmt.Errorf("cannot update user without ID")
	}

	model := r.mapper.ToModel(userEntity)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if sharederrors.IsDuplicateError(err) {
			return sharederrors.NewAlreadyRegisteredError()
		}
		r.logger.Errorw("failed to update user", "id", userEntity.ID, "error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// UpdateRole changes the privilege level of a user
func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role user.Role) error {
	if !role.IsValid() {
		return sharederrors.NewValidationError("invalid role")
	}

	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", id).
		Update("role", int(role))
	if result.Error != nil {
		r.logger.Errorw("failed to update user role", "id", id, "error", result.Error)
		return fmt.Errorf("failed to update user role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return sharederrors.NewNotFoundError("user not found")
	}

	return nil
}

// ExistsByEmail checks if a user exists by email
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return count > 0, nil
}
