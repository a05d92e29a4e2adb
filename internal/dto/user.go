package dto

// ── 用户模块请求 ──

// CreateUserRequest 创建员工请求（经理/店长操作）
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role"     binding:"required,oneof=staff manager owner"`
	BranchID string `json:"branch_id" binding:"required,uuid"`
}

// UpdateUserRequest 更新员工请求
type UpdateUserRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=100"`
	Role     *string `json:"role"      binding:"omitempty,oneof=staff manager owner"`
	BranchID *string `json:"branch_id" binding:"omitempty,uuid"`
	IsActive *bool   `json:"is_active"`
}

// UserListRequest 员工列表查询参数
type UserListRequest struct {
	BranchID string `form:"branch_id" binding:"omitempty,uuid"`
	Role     string `form:"role"      binding:"omitempty,oneof=staff manager owner"`
	PaginationRequest
}

// ── 用户模块响应 ──

// UserResponse 员工信息响应（脱敏）
type UserResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Role     string          `json:"role"`
	Branch   *BranchResponse `json:"branch,omitempty"`
	IsActive bool            `json:"is_active"`
}

// StaffBrief 员工简要信息
type StaffBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
