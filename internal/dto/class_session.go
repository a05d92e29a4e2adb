package dto

// ── 团课模块请求 ──

// CreateClassSessionRequest 创建团课排期请求
type CreateClassSessionRequest struct {
	BranchID  string `json:"branch_id"  binding:"required,uuid"`
	TrainerID string `json:"trainer_id" binding:"required,uuid"`
	Title     string `json:"title"      binding:"required,min=2,max=200"`
	StartTime string `json:"start_time" binding:"required"` // RFC3339
	EndTime   string `json:"end_time"   binding:"required"` // RFC3339
	Capacity  int    `json:"capacity"   binding:"omitempty,min=1,max=200"`
}

// UpdateClassSessionRequest 更新团课排期请求
type UpdateClassSessionRequest struct {
	TrainerID *string `json:"trainer_id" binding:"omitempty,uuid"`
	Title     *string `json:"title"      binding:"omitempty,min=2,max=200"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Capacity  *int    `json:"capacity" binding:"omitempty,min=1,max=200"`
	Status    *string `json:"status"   binding:"omitempty,oneof=scheduled cancelled finished"`
}

// ClassSessionListRequest 团课列表查询参数
type ClassSessionListRequest struct {
	BranchID string `form:"branch_id" binding:"required,uuid"`
	From     string `form:"from"      binding:"required"` // RFC3339
	To       string `form:"to"        binding:"required"` // RFC3339
}

// ── 团课模块响应 ──

// ClassSessionResponse 团课排期响应
type ClassSessionResponse struct {
	ID        string      `json:"id"`
	BranchID  string      `json:"branch_id"`
	Trainer   *StaffBrief `json:"trainer,omitempty"`
	Title     string      `json:"title"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Capacity  int         `json:"capacity"`
	Status    string      `json:"status"`
}
