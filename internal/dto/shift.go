package dto

// ── 班次模块请求 ──

// CreateShiftRequest 创建班次请求
type CreateShiftRequest struct {
	StaffID   string `json:"staff_id"   binding:"required,uuid"`
	BranchID  string `json:"branch_id"  binding:"required,uuid"`
	StartTime string `json:"start_time" binding:"required"` // RFC3339
	EndTime   string `json:"end_time"   binding:"required"` // RFC3339
	Notes     string `json:"notes"      binding:"omitempty,max=500"`
}

// UpdateShiftRequest 更新班次请求
type UpdateShiftRequest struct {
	StaffID   *string `json:"staff_id"   binding:"omitempty,uuid"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Status    *string `json:"status" binding:"omitempty,oneof=scheduled released completed cancelled"`
	Notes     *string `json:"notes"  binding:"omitempty,max=500"`
}

// ShiftListRequest 班次列表查询参数
type ShiftListRequest struct {
	BranchID string `form:"branch_id" binding:"required,uuid"`
	StaffID  string `form:"staff_id"  binding:"omitempty,uuid"`
	From     string `form:"from"      binding:"required"` // RFC3339
	To       string `form:"to"        binding:"required"` // RFC3339
	PaginationRequest
}

// ── 班次模块响应 ──

// ShiftResponse 班次响应
type ShiftResponse struct {
	ID        string      `json:"id"`
	Staff     *StaffBrief `json:"staff,omitempty"`
	BranchID  string      `json:"branch_id"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Status    string      `json:"status"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}
