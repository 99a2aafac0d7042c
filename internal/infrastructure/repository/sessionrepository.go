package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"authrelay/internal/domain/user"
	"authrelay/internal/infrastructure/persistence/models"
	"authrelay/internal/shared/logger"
)

// SessionRepository implements user.SessionRepository on gorm.
type SessionRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSessionRepository(db *gorm.DB, logger logger.Interface) user.SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *user.Session) error {
	model := toSessionModel(session)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create session", "user_id", session.UserID, "error", err)
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*user.Session, error) {
	var model models.SessionModel

	err := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get session", "error", err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return toSessionEntity(&model), nil
}

func (r *SessionRepository) Update(ctx context.Context, session *user.Session) error {
	model := toSessionModel(session)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		r.logger.Errorw("failed to update session", "error", err)
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		Delete(&models.SessionModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.SessionModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.SessionModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

func toSessionModel(s *user.Session) *models.SessionModel {
	return &models.SessionModel{
		ID:             s.ID,
		UserID:         s.UserID,
		IPAddress:      s.IPAddress,
		UserAgent:      s.UserAgent,
		ExpiresAt:      s.ExpiresAt,
		LastActivityAt: s.LastActivityAt,
		CreatedAt:      s.CreatedAt,
	}
}

func toSessionEntity(m *models.SessionModel) *user.Session {
	return &user.Session{
		ID:             m.ID,
		UserID:         m.UserID,
		IPAddress:      m.IPAddress,
		UserAgent:      m.UserAgent,
		ExpiresAt:      m.ExpiresAt,
		LastActivityAt: m.LastActivityAt,
		CreatedAt:      m.CreatedAt,
	}
}
