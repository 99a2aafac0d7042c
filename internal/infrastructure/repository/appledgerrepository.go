package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"authrelay/internal/domain/app"
	"authrelay/internal/infrastructure/persistence/mappers"
	"authrelay/internal/infrastructure/persistence/models"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
)

// AppLedgerRepository implements app.Ledger on gorm.
type AppLedgerRepository struct {
	db     *gorm.DB
	mapper *mappers.AppMapper
	logger logger.Interface
}

func NewAppLedgerRepository(db *gorm.DB, logger logger.Interface) app.Ledger {
	return &AppLedgerRepository{
		db:     db,
		mapper: mappers.NewAppMapper(),
		logger: logger,
	}
}

// GetByID retrieves an app by internal ID
func (r *AppLedgerRepository) GetByID(ctx context.Context, id uint) (*app.App, error) {
	var model models.AppModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get app by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get app: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// GetByName retrieves an app by slug
func (r *AppLedgerRepository) GetByName(ctx context.Context, name string) (*app.App, error) {
	var model models.AppModel

	err := r.db.WithContext(ctx).
		Where("app_name = ?", name).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get app by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to get app by name: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// FindOrCreate returns the app with the given slug, creating it with
// default metadata when absent.
func (r *AppLedgerRepository) FindOrCreate(ctx context.Context, name, displayName, description string) (*app.App, error) {
	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	entity, err := app.NewApp(name, displayName, description)
	if err != nil {
		return nil, sharederrors.NewValidationError(err.Error())
	}

	model := r.mapper.ToModel(entity)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// A concurrent request may have created the app between the
		// lookup and the insert.
		if sharederrors.IsDuplicateError(err) {
			return r.GetByName(ctx, name)
		}
		r.logger.Errorw("failed to create app", "name", name, "error", err)
		return nil, fmt.Errorf("failed to create app: %w", err)
	}

	r.logger.Infow("app created", "id", model.ID, "name", name)
	return r.mapper.ToEntity(model), nil
}

// RegisterOrFind returns the app with the given slug, creating it when
// absent and refreshing metadata from non-empty fields when present.
func (r *AppLedgerRepository) RegisterOrFind(ctx context.Context, name, displayName, description string) (*app.RegisterResult, error) {
	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		created, err := r.FindOrCreate(ctx, name, displayName, description)
		if err != nil {
			return nil, err
		}
		return &app.RegisterResult{App: created, IsNew: true}, nil
	}

	updates := map[string]interface{}{}
	if displayName != "" && displayName != existing.DisplayName {
		updates["app_display_name"] = displayName
	}
	if description != "" && description != existing.Description {
		updates["app_description"] = description
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		err := r.db.WithContext(ctx).
			Model(&models.AppModel{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error
		if err != nil {
			r.logger.Errorw("failed to refresh app metadata", "name", name, "error", err)
			return nil, fmt.Errorf("failed to refresh app metadata: %w", err)
		}

		existing, err = r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	return &app.RegisterResult{App: existing, IsNew: false}, nil
}

// RecordLogin upserts the usage row for (appID, userID).
func (r *AppLedgerRepository) RecordLogin(ctx context.Context, appID, userID uint) (*app.LoginRecord, error) {
	now := time.Now().UTC()
	model := &models.AppUsageModel{
		AppID:        appID,
		UserID:       userID,
		FirstLoginAt: now,
		LastLoginAt:  now,
		LoginCount:   1,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "app_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"login_count":   gorm.Expr("login_count + 1"),
				"last_login_at": now,
			}),
		}).
		Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to record login", "app_id", appID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	var row models.AppUsageModel
	err = r.db.WithContext(ctx).
		Where("app_id = ? AND user_id = ?", appID, userID).
		First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read usage row: %w", err)
	}

	return &app.LoginRecord{
		IsNewUser:  row.LoginCount == 1,
		LoginCount: row.LoginCount,
	}, nil
}

// ListApps returns every app with its distinct-user count.
func (r *AppLedgerRepository) ListApps(ctx context.Context) ([]*app.AppWithStats, error) {
	var appModels []*models.AppModel
	if err := r.db.WithContext(ctx).Order("app_name").Find(&appModels).Error; err != nil {
		r.logger.Errorw("failed to list apps", "error", err)
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}

	type countRow struct {
		AppID uint
		Count int64
	}
	var counts []countRow
	err := r.db.WithContext(ctx).
		Model(&models.AppUsageModel{}).
		Select("app_id, count(distinct user_id) as count").
		Group("app_id").
		Scan(&counts).Error
	if err != nil {
		r.logger.Errorw("failed to count app users", "error", err)
		return nil, fmt.Errorf("failed to count app users: %w", err)
	}

	countByApp := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByApp[c.AppID] = c.Count
	}

	result := make([]*app.AppWithStats, 0, len(appModels))
	for _, model := range appModels {
		result = append(result, &app.AppWithStats{
			App:       r.mapper.ToEntity(model),
			UserCount: countByApp[model.ID],
		})
	}

	return result, nil
}

// GetUsersByApp returns the usage rows of every user of an app.
func (r *AppLedgerRepository) GetUsersByApp(ctx context.Context, appID uint) ([]*app.UserUsage, error) {
	type row struct {
		UserID       uint
		Name         string
		Email        string
		Provider     string
		FirstLoginAt time.Time
		LastLoginAt  time.Time
		LoginCount   int
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Table("app_usages").
		Select("app_usages.user_id, users.name, users.email, users.provider, app_usages.first_login_at, app_usages.last_login_at, app_usages.login_count").
		Joins("JOIN users ON users.id = app_usages.user_id").
		Where("app_usages.app_id = ?", appID).
		Order("app_usages.last_login_at DESC").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to get users by app", "app_id", appID, "error", err)
		return nil, fmt.Errorf("failed to get users by app: %w", err)
	}

	result := make([]*app.UserUsage, 0, len(rows))
	for _, rr := range rows {
		result = append(result, &app.UserUsage{
			UserID:       rr.UserID,
			UserName:     rr.Name,
			UserEmail:    rr.Email,
			Provider:     rr.Provider,
			FirstLoginAt: rr.FirstLoginAt,
			LastLoginAt:  rr.LastLoginAt,
			LoginCount:   rr.LoginCount,
		})
	}

	return result, nil
}

// GetAppsByUser returns every app the user has logged into.
func (r *AppLedgerRepository) GetAppsByUser(ctx context.Context, userID uint) ([]*app.AppUsageSummary, error) {
	type row struct {
		models.AppModel
		FirstLoginAt time.Time
		LastLoginAt  time.Time
		LoginCount   int
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Table("app_usages").
		Select("apps.*, app_usages.first_login_at, app_usages.last_login_at, app_usages.login_count").
		Joins("JOIN apps ON apps.id = app_usages.app_id").
		Where("app_usages.user_id = ?", userID).
		Order("app_usages.last_login_at DESC").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to get apps by user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get apps by user: %w", err)
	}

	result := make([]*app.AppUsageSummary, 0, len(rows))
	for _, rr := range rows {
		model := rr.AppModel
		result = append(result, &app.AppUsageSummary{
			App:          r.mapper.ToEntity(&model),
			FirstLoginAt: rr.FirstLoginAt,
			LastLoginAt:  rr.LastLoginAt,
			LoginCount:   rr.LoginCount,
		})
	}

	return result, nil
}

// Delete removes an app and its usage rows.
func (r *AppLedgerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("app_id = ?", id).Delete(&models.AppUsageModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete app usage rows: %w", err)
		}

		result := tx.Delete(&models.AppModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete app: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return sharederrors.NewNotFoundError("app not found")
		}

		return nil
	})
}
