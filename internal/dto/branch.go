package dto

// ── 门店模块请求 ──

// CreateBranchRequest 创建门店请求
type CreateBranchRequest struct {
	Name    string `json:"name"    binding:"required,min=2,max=100"`
	Address string `json:"address" binding:"omitempty,max=255"`
	Phone   string `json:"phone"   binding:"omitempty,max=20"`
}

// UpdateBranchRequest 更新门店请求
type UpdateBranchRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=100"`
	Address  *string `json:"address"   binding:"omitempty,max=255"`
	Phone    *string `json:"phone"     binding:"omitempty,max=20"`
	IsActive *bool   `json:"is_active"`
}

// ── 门店模块响应 ──

// BranchResponse 门店信息响应
type BranchResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}
