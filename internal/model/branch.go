package model

// Branch 门店表 — 对应 branches
type Branch struct {
	BranchID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"branch_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Address  string `gorm:"type:varchar(255)"                              json:"address,omitempty"`
	Phone    string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Branch) TableName() string { return "branches" }
