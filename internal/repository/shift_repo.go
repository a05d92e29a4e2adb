package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sgms/backend/internal/model"
	pkgerrors "sgms/backend/pkg/errors"
)

// ShiftRepository 班次数据访问接口
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	GetByID(ctx context.Context, id string) (*model.Shift, error)
	// ListByStaff 按员工查询班次，status 为空时不过滤
	ListByStaff(ctx context.Context, staffID, status string) ([]model.Shift, error)
	// ListByStaffRange 按员工 + 时间范围查询（个人日历导出）
	ListByStaffRange(ctx context.Context, staffID string, from, to time.Time) ([]model.Shift, error)
	// ListByBranch 按门店 + 时间范围分页查询，staffID 为空时不过滤
	ListByBranch(ctx context.Context, branchID string, from, to time.Time, staffID string, offset, limit int) ([]model.Shift, int64, error)
	Update(ctx context.Context, shift *model.Shift) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepo) GetByID(ctx context.Context, id string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Branch").
		Where("shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) ListByStaff(ctx context.Context, staffID, status string) ([]model.Shift, error) {
	var shifts []model.Shift
	db := r.db.WithContext(ctx).Where("staff_id = ?", staffID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("start_time ASC").Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) ListByStaffRange(ctx context.Context, staffID string, from, to time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Preload("Branch").
		Where("staff_id = ? AND start_time >= ? AND start_time < ?", staffID, from, to).
		Order("start_time ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) ListByBranch(ctx context.Context, branchID string, from, to time.Time, staffID string, offset, limit int) ([]model.Shift, int64, error) {
	var shifts []model.Shift
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Shift{}).
		Where("branch_id = ? AND start_time >= ? AND start_time < ?", branchID, from, to)
	if staffID != "" {
		db = db.Where("staff_id = ?", staffID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Staff").
		Offset(offset).Limit(limit).
		Order("start_time ASC").
		Find(&shifts).Error
	return shifts, total, err
}

func (r *shiftRepo) Update(ctx context.Context, shift *model.Shift) error {
	oldVersion := shift.Version
	result := r.db.WithContext(ctx).
		Model(shift).
		Where("shift_id = ? AND version = ?", shift.ShiftID, oldVersion).
		Updates(map[string]interface{}{
			"staff_id":   shift.StaffID,
			"start_time": shift.StartTime,
			"end_time":   shift.EndTime,
			"status":     shift.Status,
			"notes":      shift.Notes,
			"updated_by": shift.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	shift.Version = oldVersion + 1
	return nil
}

func (r *shiftRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
