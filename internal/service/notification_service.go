package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sgms/backend/internal/dto"
	"sgms/backend/internal/model"
	"sgms/backend/internal/repository"
)

// 通知类型
const (
	NotifyRescheduleCreated   = "reschedule_created"
	NotifyRescheduleAccepted  = "reschedule_accepted"
	NotifyRescheduleApproved  = "reschedule_approved"
	NotifyRescheduleRejected  = "reschedule_rejected"
	NotifyRescheduleCancelled = "reschedule_cancelled"
	NotifyRescheduleExpired   = "reschedule_expired"
)

// NotificationService 站内通知业务接口
type NotificationService interface {
	ListMy(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error

	// NotifyRescheduleEvent 在换班申请流转后给相关人发站内通知。
	// 通知失败只记日志，不影响主流程。
	NotifyRescheduleEvent(ctx context.Context, eventType, title, content, requestID string, userIDs ...string)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) ListMy(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	notifications, total, err := s.repo.Notification.ListByUser(ctx, userID, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	resps := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		resp := dto.NotificationResponse{
			ID:        n.NotificationID,
			Type:      n.Type,
			Title:     n.Title,
			Content:   n.Content,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
		if n.RelatedType != nil {
			resp.RelatedType = *n.RelatedType
		}
		if n.RelatedID != nil {
			resp.RelatedID = *n.RelatedID
		}
		resps = append(resps, resp)
	}
	return resps, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.Notification.MarkRead(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.Notification.MarkAllRead(ctx, userID)
}

func (s *notificationService) NotifyRescheduleEvent(ctx context.Context, eventType, title, content, requestID string, userIDs ...string) {
	relatedType := "reschedule_request"
	notifications := make([]model.Notification, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}

		rid := requestID
		notifications = append(notifications, model.Notification{
			UserID:      userID,
			Type:        eventType,
			Title:       title,
			Content:     content,
			RelatedType: &relatedType,
			RelatedID:   &rid,
		})
	}

	if err := s.repo.Notification.BatchCreate(ctx, notifications); err != nil {
		s.logger.Warn("写入换班通知失败",
			zap.String("event_type", eventType),
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
