package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sgms/backend/internal/model"
	pkgerrors "sgms/backend/pkg/errors"
)

// ClassSessionRepository 团课排期数据访问接口
type ClassSessionRepository interface {
	Create(ctx context.Context, session *model.ClassSession) error
	GetByID(ctx context.Context, id string) (*model.ClassSession, error)
	ListByBranch(ctx context.Context, branchID string, from, to time.Time) ([]model.ClassSession, error)
	Update(ctx context.Context, session *model.ClassSession) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type classSessionRepo struct {
	db *gorm.DB
}

// NewClassSessionRepo 创建 ClassSessionRepository 实例
func NewClassSessionRepo(db *gorm.DB) ClassSessionRepository {
	return &classSessionRepo{db: db}
}

func (r *classSessionRepo) Create(ctx context.Context, session *model.ClassSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *classSessionRepo) GetByID(ctx context.Context, id string) (*model.ClassSession, error) {
	var session model.ClassSession
	err := r.db.WithContext(ctx).
		Preload("Trainer").
		Preload("Branch").
		Where("class_session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *classSessionRepo) ListByBranch(ctx context.Context, branchID string, from, to time.Time) ([]model.ClassSession, error) {
	var sessions []model.ClassSession
	err := r.db.WithContext(ctx).
		Preload("Trainer").
		Where("branch_id = ? AND start_time >= ? AND start_time < ?", branchID, from, to).
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *classSessionRepo) Update(ctx context.Context, session *model.ClassSession) error {
	oldVersion := session.Version
	result := r.db.WithContext(ctx).
		Model(session).
		Where("class_session_id = ? AND version = ?", session.ClassSessionID, oldVersion).
		Updates(map[string]interface{}{
			"trainer_id": session.TrainerID,
			"title":      session.Title,
			"start_time": session.StartTime,
			"end_time":   session.EndTime,
			"capacity":   session.Capacity,
			"status":     session.Status,
			"updated_by": session.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	session.Version = oldVersion + 1
	return nil
}

func (r *classSessionRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ClassSession{}).
		Where("class_session_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
