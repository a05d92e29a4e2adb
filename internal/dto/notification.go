package dto

// ── 通知模块请求 ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	UnreadOnly bool `form:"unread_only"`
	PaginationRequest
}

// ── 通知模块响应 ──

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsRead      bool   `json:"is_read"`
	RelatedType string `json:"related_type,omitempty"`
	RelatedID   string `json:"related_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}
