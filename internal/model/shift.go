package model

import "time"

// 班次状态
const (
	ShiftStatusScheduled = "scheduled" // 已排班
	ShiftStatusReleased  = "released"  // 已让出（人工标记，不参与冲突判定）
	ShiftStatusCompleted = "completed" // 已完成
	ShiftStatusCancelled = "cancelled" // 已取消
)

// Shift 工作班次表 — 对应 shifts
type Shift struct {
	ShiftID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	StaffID   string    `gorm:"type:uuid;not null"                             json:"staff_id"`
	BranchID  string    `gorm:"type:uuid;not null"                             json:"branch_id"`
	StartTime time.Time `gorm:"not null"                                       json:"start_time"`
	EndTime   time.Time `gorm:"not null"                                       json:"end_time"`
	Status    string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"` // scheduled | released | completed | cancelled
	Notes     string    `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	VersionedModel

	// 关联
	Staff  *User   `gorm:"foreignKey:StaffID;references:UserID"    json:"staff,omitempty"`
	Branch *Branch `gorm:"foreignKey:BranchID;references:BranchID" json:"branch,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// Overlaps 半开区间重叠检测：[start, end) 与本班次时间窗是否相交
func (s *Shift) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && s.EndTime.After(start)
}
