package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"sgms/backend/internal/dto"
	"sgms/backend/internal/service"
	pkgerrors "sgms/backend/pkg/errors"
	"sgms/backend/pkg/response"
)

// ShiftHandler 班次模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// CreateShift 创建班次
// POST /api/v1/shifts
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, shift)
}

// GetShift 获取班次详情
// GET /api/v1/shifts/:id
func (h *ShiftHandler) GetShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	shift, err := h.shiftSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// ListShifts 按门店+时间范围查询班次
// GET /api/v1/shifts
func (h *ShiftHandler) ListShifts(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	shifts, total, err := h.shiftSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OKPage(c, shifts, total, req.GetPage(), req.GetPageSize())
}

// ListMyShifts 查询当前用户的班次
// GET /api/v1/shifts/my?from=...&to=...
func (h *ShiftHandler) ListMyShifts(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		response.BadRequest(c, 10001, "from 时间格式无效")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		response.BadRequest(c, 10001, "to 时间格式无效")
		return
	}

	shifts, err := h.shiftSvc.ListMy(c.Request.Context(), callerID, from, to)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": shifts})
}

// UpdateShift 更新班次
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// CancelShift 取消班次
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) CancelShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.shiftSvc.Cancel(c.Request.Context(), id, callerID); err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleShiftError 统一处理班次模块业务错误
func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 15001, "班次不存在")
	case errors.Is(err, service.ErrShiftTimeInvalid):
		response.BadRequest(c, 15002, "班次时间无效")
	case errors.Is(err, service.ErrShiftOverlap):
		response.Conflict(c, 15003, "该员工在此时间段已有排班")
	case errors.Is(err, service.ErrStaffNotFound):
		response.BadRequest(c, 15004, "员工不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
