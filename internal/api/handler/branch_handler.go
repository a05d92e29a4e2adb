package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sgms/backend/internal/dto"
	"sgms/backend/internal/service"
	"sgms/backend/pkg/response"
)

// BranchHandler 门店模块 HTTP 处理器
type BranchHandler struct {
	branchSvc service.BranchService
}

// NewBranchHandler 创建 BranchHandler
func NewBranchHandler(branchSvc service.BranchService) *BranchHandler {
	return &BranchHandler{branchSvc: branchSvc}
}

// CreateBranch 创建门店
// POST /api/v1/branches
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req dto.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	branch, err := h.branchSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.Created(c, branch)
}

// GetBranch 获取门店详情
// GET /api/v1/branches/:id
func (h *BranchHandler) GetBranch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	branch, err := h.branchSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.OK(c, branch)
}

// ListBranches 获取门店列表
// GET /api/v1/branches
func (h *BranchHandler) ListBranches(c *gin.Context) {
	branches, err := h.branchSvc.List(c.Request.Context())
	if err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.OK(c, gin.H{"list": branches})
}

// UpdateBranch 更新门店
// PUT /api/v1/branches/:id
func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	var req dto.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	branch, err := h.branchSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.OK(c, branch)
}

// DeleteBranch 删除门店（软删除）
// DELETE /api/v1/branches/:id
func (h *BranchHandler) DeleteBranch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.branchSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleBranchError 统一处理门店模块业务错误
func (h *BranchHandler) handleBranchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBranchNotFound):
		response.NotFound(c, 13001, "门店不存在")
	default:
		response.InternalError(c)
	}
}
