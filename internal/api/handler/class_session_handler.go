package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sgms/backend/internal/dto"
	"sgms/backend/internal/service"
	pkgerrors "sgms/backend/pkg/errors"
	"sgms/backend/pkg/response"
)

// ClassSessionHandler 团课模块 HTTP 处理器
type ClassSessionHandler struct {
	classSvc service.ClassSessionService
}

// NewClassSessionHandler 创建 ClassSessionHandler
func NewClassSessionHandler(classSvc service.ClassSessionService) *ClassSessionHandler {
	return &ClassSessionHandler{classSvc: classSvc}
}

// CreateClassSession 创建团课排期
// POST /api/v1/class-sessions
func (h *ClassSessionHandler) CreateClassSession(c *gin.Context) {
	var req dto.CreateClassSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.classSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.Created(c, session)
}

// GetClassSession 获取团课排期详情
// GET /api/v1/class-sessions/:id
func (h *ClassSessionHandler) GetClassSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "团课ID不能为空")
		return
	}

	session, err := h.classSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, session)
}

// ListClassSessions 按门店+时间范围查询团课排期
// GET /api/v1/class-sessions
func (h *ClassSessionHandler) ListClassSessions(c *gin.Context) {
	var req dto.ClassSessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessions, err := h.classSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, gin.H{"list": sessions})
}

// UpdateClassSession 更新团课排期
// PUT /api/v1/class-sessions/:id
func (h *ClassSessionHandler) UpdateClassSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "团课ID不能为空")
		return
	}

	var req dto.UpdateClassSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.classSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, session)
}

// DeleteClassSession 删除团课排期（软删除）
// DELETE /api/v1/class-sessions/:id
func (h *ClassSessionHandler) DeleteClassSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "团课ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.classSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleClassError 统一处理团课模块业务错误
func (h *ClassSessionHandler) handleClassError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 17001, "团课排期不存在")
	case errors.Is(err, service.ErrClassTimeInvalid):
		response.BadRequest(c, 17002, "团课时间无效")
	case errors.Is(err, service.ErrStaffNotFound):
		response.BadRequest(c, 17003, "教练不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
