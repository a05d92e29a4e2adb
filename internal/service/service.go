package service

import (
	"go.uber.org/zap"

	"sgms/backend/config"
	"sgms/backend/internal/repository"
	"sgms/backend/pkg/jwt"
	"sgms/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Branch       BranchService
	Shift        ShiftService
	ClassSession ClassSessionService
	Reschedule   RescheduleService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	notificationSvc := NewNotificationService(repo, logger)
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Branch:       NewBranchService(repo, logger),
		Shift:        NewShiftService(repo, logger),
		ClassSession: NewClassSessionService(repo, logger),
		Reschedule:   NewRescheduleService(cfg, repo, notificationSvc, logger),
		Notification: notificationSvc,
		Export:       NewExportService(repo, logger),
	}
}
