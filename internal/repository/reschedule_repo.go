package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sgms/backend/internal/model"
	pkgerrors "sgms/backend/pkg/errors"
)

// RescheduleFilter 换班申请列表过滤条件
type RescheduleFilter struct {
	BranchID string
	Status   string
	SwapType string
	Offset   int
	Limit    int
}

// RescheduleRequestRepository 换班申请数据访问接口
//
// Update 以 (request_id, version) 做乐观锁（比较后交换）：
// 两个操作者竞争同一申请时，恰好一个提交成功，
// 其余收到 pkgerrors.ErrOptimisticLock，由调用方重新读取后决定是否重试。
type RescheduleRequestRepository interface {
	Create(ctx context.Context, req *model.RescheduleRequest) error
	GetByID(ctx context.Context, id string) (*model.RescheduleRequest, error)
	// GetByIDWithLogs 带完整状态流转历史
	GetByIDWithLogs(ctx context.Context, id string) (*model.RescheduleRequest, error)
	List(ctx context.Context, filter RescheduleFilter) ([]model.RescheduleRequest, int64, error)
	// ListOpenBroadcast 门店广播池：等待自愿接班的申请
	ListOpenBroadcast(ctx context.Context, branchID string) ([]model.RescheduleRequest, error)
	// ListByStaff 我发起的或定向指给我的申请
	ListByStaff(ctx context.Context, staffID string, offset, limit int) ([]model.RescheduleRequest, int64, error)
	// ListExpirable 已过 expiresAt 且仍处于非终态的申请
	ListExpirable(ctx context.Context, now time.Time) ([]model.RescheduleRequest, error)
	// HasActiveForShift 班次是否已有进行中的换班申请
	HasActiveForShift(ctx context.Context, shiftID string) (bool, error)
	Update(ctx context.Context, req *model.RescheduleRequest) error
	AppendStateLog(ctx context.Context, log *model.RequestStateLog) error
}

// 非终态集合（SQL 过滤用）
var activeStates = []string{"pending_broadcast", "pending_acceptance", "pending_approval"}

type rescheduleRepo struct {
	db *gorm.DB
}

// NewRescheduleRepo 创建 RescheduleRequestRepository 实例
func NewRescheduleRepo(db *gorm.DB) RescheduleRequestRepository {
	return &rescheduleRepo{db: db}
}

func (r *rescheduleRepo) Create(ctx context.Context, req *model.RescheduleRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *rescheduleRepo) GetByID(ctx context.Context, id string) (*model.RescheduleRequest, error) {
	var req model.RescheduleRequest
	err := r.db.WithContext(ctx).
		Preload("OriginalShift").
		Preload("TargetShift").
		Preload("Requester").
		Preload("Target").
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *rescheduleRepo) GetByIDWithLogs(ctx context.Context, id string) (*model.RescheduleRequest, error) {
	var req model.RescheduleRequest
	err := r.db.WithContext(ctx).
		Preload("OriginalShift").
		Preload("TargetShift").
		Preload("Requester").
		Preload("Target").
		Preload("StateLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *rescheduleRepo) List(ctx context.Context, filter RescheduleFilter) ([]model.RescheduleRequest, int64, error) {
	var reqs []model.RescheduleRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.RescheduleRequest{})
	if filter.BranchID != "" {
		db = db.Where("branch_id = ?", filter.BranchID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.SwapType != "" {
		db = db.Where("swap_type = ?", filter.SwapType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("OriginalShift").
		Preload("Requester").
		Preload("Target").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, total, err
}

func (r *rescheduleRepo) ListOpenBroadcast(ctx context.Context, branchID string) ([]model.RescheduleRequest, error) {
	var reqs []model.RescheduleRequest
	err := r.db.WithContext(ctx).
		Preload("OriginalShift").
		Preload("Requester").
		Where("branch_id = ? AND status = ? AND expires_at > ?", branchID, "pending_broadcast", time.Now()).
		Order("expires_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *rescheduleRepo) ListByStaff(ctx context.Context, staffID string, offset, limit int) ([]model.RescheduleRequest, int64, error) {
	var reqs []model.RescheduleRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.RescheduleRequest{}).
		Where("requester_staff_id = ? OR target_staff_id = ?", staffID, staffID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("OriginalShift").
		Preload("Requester").
		Preload("Target").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, total, err
}

func (r *rescheduleRepo) ListExpirable(ctx context.Context, now time.Time) ([]model.RescheduleRequest, error) {
	var reqs []model.RescheduleRequest
	err := r.db.WithContext(ctx).
		Where("status IN ? AND expires_at < ?", activeStates, now).
		Find(&reqs).Error
	return reqs, err
}

func (r *rescheduleRepo) HasActiveForShift(ctx context.Context, shiftID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RescheduleRequest{}).
		Where("original_shift_id = ? AND status IN ?", shiftID, activeStates).
		Count(&count).Error
	return count > 0, err
}

func (r *rescheduleRepo) Update(ctx context.Context, req *model.RescheduleRequest) error {
	oldVersion := req.Version
	result := r.db.WithContext(ctx).
		Model(req).
		Where("request_id = ? AND version = ?", req.RequestID, oldVersion).
		Updates(map[string]interface{}{
			"target_staff_id":  req.TargetStaffID,
			"target_shift_id":  req.TargetShiftID,
			"priority":         req.Priority,
			"reason":           req.Reason,
			"status":           req.Status,
			"rejection_reason": req.RejectionReason,
			"updated_by":       req.UpdatedBy,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version = oldVersion + 1
	return nil
}

func (r *rescheduleRepo) AppendStateLog(ctx context.Context, log *model.RequestStateLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
