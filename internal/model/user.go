package model

// 用户角色
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleOwner   = "owner"
)

// User 员工表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'staff'"      json:"role"` // staff | manager | owner
	BranchID     string `gorm:"type:uuid;not null"                             json:"branch_id"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Branch *Branch `gorm:"foreignKey:BranchID;references:BranchID" json:"branch,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
