package handler

import "sgms/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Branch       *BranchHandler
	Shift        *ShiftHandler
	ClassSession *ClassSessionHandler
	Reschedule   *RescheduleHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Branch:       NewBranchHandler(svc.Branch),
		Shift:        NewShiftHandler(svc.Shift),
		ClassSession: NewClassSessionHandler(svc.ClassSession),
		Reschedule:   NewRescheduleHandler(svc.Reschedule),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
