package handler

import (
	"github.com/gin-gonic/gin"

	"sgms/backend/internal/dto"
	"sgms/backend/internal/service"
	"sgms/backend/pkg/response"
)

// NotificationHandler 通知模块 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// ListMyNotifications 获取当前用户通知列表
// GET /api/v1/notifications
func (h *NotificationHandler) ListMyNotifications(c *gin.Context) {
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	notifications, total, err := h.notificationSvc.ListMy(c.Request.Context(), callerID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, notifications, total, req.GetPage(), req.GetPageSize())
}

// MarkNotificationRead 标记单条通知已读
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "通知ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), id, callerID); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// MarkAllNotificationsRead 全部标记已读
// PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllNotificationsRead(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkAllRead(c.Request.Context(), callerID); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
