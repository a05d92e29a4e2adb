package dto

// ── 换班模块请求 ──

// CreateRescheduleRequest 创建换班申请请求
//   - find_replacement: 仅需 original_shift_id
//   - direct_swap:      必须指定 target_staff_id + target_shift_id
//   - manager_assign:   经理/店长发起，必须指定 target_staff_id
type CreateRescheduleRequest struct {
	OriginalShiftID string  `json:"original_shift_id" binding:"required,uuid"`
	SwapType        string  `json:"swap_type"         binding:"required,oneof=find_replacement direct_swap manager_assign"`
	Reason          string  `json:"reason"            binding:"required,min=2,max=500"`
	Priority        string  `json:"priority"          binding:"omitempty,oneof=low medium high urgent"`
	TargetStaffID   *string `json:"target_staff_id"   binding:"omitempty,uuid"`
	TargetShiftID   *string `json:"target_shift_id"   binding:"omitempty,uuid"`
}

// UpdateRescheduleRequest 编辑换班申请请求（仅限被响应前）
type UpdateRescheduleRequest struct {
	Reason   *string `json:"reason"   binding:"omitempty,min=2,max=500"`
	Priority *string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

// RejectRescheduleRequest 驳回换班申请请求
type RejectRescheduleRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required,min=2,max=500"`
}

// RescheduleListRequest 换班申请列表查询参数
type RescheduleListRequest struct {
	BranchID string `form:"branch_id" binding:"omitempty,uuid"`
	Status   string `form:"status"   binding:"omitempty,oneof=pending_broadcast pending_acceptance pending_approval approved rejected cancelled expired completed"`
	SwapType string `form:"swap_type" binding:"omitempty,oneof=find_replacement direct_swap manager_assign"`
	PaginationRequest
}

// ── 换班模块响应 ──

// RescheduleResponse 换班申请响应
type RescheduleResponse struct {
	ID              string                  `json:"id"`
	OriginalShift   *ShiftResponse          `json:"original_shift,omitempty"`
	TargetShift     *ShiftResponse          `json:"target_shift,omitempty"`
	Requester       *StaffBrief             `json:"requester,omitempty"`
	Target          *StaffBrief             `json:"target,omitempty"`
	SwapType        string                  `json:"swap_type"`
	Priority        string                  `json:"priority"`
	Reason          string                  `json:"reason"`
	Status          string                  `json:"status"`
	RejectionReason string                  `json:"rejection_reason,omitempty"`
	ExpiresAt       string                  `json:"expires_at"`
	BranchID        string                  `json:"branch_id"`
	StateLogs       []RequestStateLogEntry  `json:"state_logs,omitempty"`
	CreatedAt       string                  `json:"created_at"`
	UpdatedAt       string                  `json:"updated_at"`
}

// RequestStateLogEntry 状态流转日志条目
type RequestStateLogEntry struct {
	FromState  string `json:"from_state,omitempty"`
	ToState    string `json:"to_state"`
	Reason     string `json:"reason,omitempty"`
	OperatorID string `json:"operator_id,omitempty"`
	ChangedAt  string `json:"changed_at"`
}

// SweepExpiredResponse 过期扫描结果
type SweepExpiredResponse struct {
	Expired int `json:"expired"` // 本次扫描流转到 expired 的申请数
}
