package model

import "time"

// ClassSession 团课排期表 — 对应 class_sessions
type ClassSession struct {
	ClassSessionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_session_id"`
	BranchID       string    `gorm:"type:uuid;not null"                             json:"branch_id"`
	TrainerID      string    `gorm:"type:uuid;not null"                             json:"trainer_id"`
	Title          string    `gorm:"type:varchar(200);not null"                     json:"title"`
	StartTime      time.Time `gorm:"not null"                                       json:"start_time"`
	EndTime        time.Time `gorm:"not null"                                       json:"end_time"`
	Capacity       int       `gorm:"not null;default:20"                            json:"capacity"`
	Status         string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"` // scheduled | cancelled | finished
	VersionedModel

	// 关联
	Trainer *User   `gorm:"foreignKey:TrainerID;references:UserID"  json:"trainer,omitempty"`
	Branch  *Branch `gorm:"foreignKey:BranchID;references:BranchID" json:"branch,omitempty"`
}

// TableName 指定表名
func (ClassSession) TableName() string { return "class_sessions" }
