package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Branch       BranchRepository
	Shift        ShiftRepository
	ClassSession ClassSessionRepository
	Reschedule   RescheduleRequestRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Branch:       NewBranchRepo(db),
		Shift:        NewShiftRepo(db),
		ClassSession: NewClassSessionRepo(db),
		Reschedule:   NewRescheduleRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// Transaction 在单个数据库事务内执行 fn
// fn 收到绑定事务连接的 Repository 聚合；fn 返回非 nil 错误时整体回滚。
// 审批流转（状态变更 + 班次改派 + 状态日志）必须作为一个事务提交。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		// 测试中以 mock 仓储组装时没有真实连接，直接在当前聚合上执行
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
