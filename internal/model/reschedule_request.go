package model

import "time"

// RescheduleRequest 换班申请表 — 对应 reschedule_requests
//
// 一条申请对应一次班次交接协商：员工让出班次 → 找人顶班或直接互换 →
// 经理/店长审批。status 只能通过状态机定义的流转修改。
type RescheduleRequest struct {
	RequestID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	OriginalShiftID  string    `gorm:"type:uuid;not null"                             json:"original_shift_id"`
	RequesterStaffID string    `gorm:"type:uuid;not null"                             json:"requester_staff_id"`
	TargetStaffID    *string   `gorm:"type:uuid"                                      json:"target_staff_id,omitempty"`
	TargetShiftID    *string   `gorm:"type:uuid"                                      json:"target_shift_id,omitempty"`
	SwapType         string    `gorm:"type:varchar(20);not null"                      json:"swap_type"` // find_replacement | direct_swap | manager_assign
	Priority         string    `gorm:"type:varchar(10);not null;default:'medium'"     json:"priority"`  // low | medium | high | urgent
	Reason           string    `gorm:"type:varchar(500);not null"                     json:"reason"`
	Status           string    `gorm:"type:varchar(20);not null"                      json:"status"` // pending_broadcast | pending_acceptance | pending_approval | approved | rejected | cancelled | expired | completed
	RejectionReason  string    `gorm:"type:varchar(500)"                              json:"rejection_reason,omitempty"`
	ExpiresAt        time.Time `gorm:"not null"                                       json:"expires_at"`
	BranchID         string    `gorm:"type:uuid;not null"                             json:"branch_id"`
	VersionedModel

	// 关联
	OriginalShift *Shift            `gorm:"foreignKey:OriginalShiftID;references:ShiftID" json:"original_shift,omitempty"`
	TargetShift   *Shift            `gorm:"foreignKey:TargetShiftID;references:ShiftID"   json:"target_shift,omitempty"`
	Requester     *User             `gorm:"foreignKey:RequesterStaffID;references:UserID" json:"requester,omitempty"`
	Target        *User             `gorm:"foreignKey:TargetStaffID;references:UserID"    json:"target,omitempty"`
	StateLogs     []RequestStateLog `gorm:"foreignKey:RequestID"                          json:"state_logs,omitempty"`
}

// TableName 指定表名
func (RescheduleRequest) TableName() string { return "reschedule_requests" }

// RequestStateLog 换班申请状态流转日志表 — 对应 request_state_logs（纯审计日志，只增不改）
type RequestStateLog struct {
	LogID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	RequestID  string    `gorm:"type:uuid;not null"                             json:"request_id"`
	FromState  *string   `gorm:"type:varchar(20)"                               json:"from_state,omitempty"` // 创建时为空
	ToState    string    `gorm:"type:varchar(20);not null"                      json:"to_state"`
	Reason     string    `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	OperatorID *string   `gorm:"type:uuid"                                      json:"operator_id,omitempty"` // 过期扫描等系统操作为空
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (RequestStateLog) TableName() string { return "request_state_logs" }
