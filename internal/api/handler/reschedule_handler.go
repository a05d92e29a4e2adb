package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"sgms/backend/internal/dto"
	"sgms/backend/internal/reschedule"
	"sgms/backend/internal/service"
	pkgerrors "sgms/backend/pkg/errors"
	"sgms/backend/pkg/response"
)

// RescheduleHandler 换班模块 HTTP 处理器
type RescheduleHandler struct {
	rescheduleSvc service.RescheduleService
}

// NewRescheduleHandler 创建 RescheduleHandler
func NewRescheduleHandler(rescheduleSvc service.RescheduleService) *RescheduleHandler {
	return &RescheduleHandler{rescheduleSvc: rescheduleSvc}
}

// CreateRequest 发起换班申请
// POST /api/v1/reschedule-requests
func (h *RescheduleHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}
	callerBranch, ok := MustGetBranchID(c)
	if !ok {
		return
	}

	result, err := h.rescheduleSvc.Create(c.Request.Context(), &req, callerID, callerRole, callerBranch)
	if err != nil {
		h.handleRescheduleError(c, err)
		return
	}

	response.Created(c, result)
}

// GetRequest 获取换班申请详情（含状态流转日志）
// GET /api/v1/reschedule-requests/:id
func (h *RescheduleHandler) GetRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	result, err := h.rescheduleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleRescheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListRequests 换班申请列表（经理/店长视角）
// GET /api/v1/reschedule-requests
func (h *RescheduleHandler) ListRequests(c *gin.Context) {
	var req dto.RescheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	results, total, err := h.rescheduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleRescheduleError(c, err)
		return
	}

	response.OKPage(c, results, total, req.GetPage(), req.GetPageSize())
}

// ListOpenRequests 本门店广播池（可自愿接班的申请）
// GET /api/v1/reschedule-requests/open
func (h *RescheduleHandler) ListOpenRequests(c *gin.Context) {
	branchID, ok := MustGetBranchID(c)
	if !ok {
		return
	}

	results, err := h.rescheduleSvc.ListOpenBroadcast(c.Request.Context(), branchID)
	if err != nil {
		h.handleRescheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": results})
}

// ListMyRequests 我发起或指向我的换班申请
// GET /api/v1/reschedule-requests/my
func (h *RescheduleHandler) ListMyRequests(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	results, total, err := h.rescheduleSvc.ListMy(c.Request.Context(), callerID, &page)
	if err != nil {
		h.handleRescheduleError(c, err)
		return
	}

	response.OKPage(c, results, total, page.GetPage(), page.GetPageSize())
}

// AcceptRequest 响应换班申请（自愿接班 / 定向互换确认）
// POST /api/v1/reschedule-requests/:id/accept
func (h *RescheduleHandler) AcceptRequest(c *gin.Context) {
	h.doAction(c, h.rescheduleSvc.Accept)
}

// ApproveRequest 审批通过（原子完成班次改派）
// POST /api/v1/reschedule-requests/:id/approve
func (h *RescheduleHandler) ApproveRequest(c *gin.Context) {
	h.doAction(c, h.rescheduleSvc.Approve)
}

// CancelRequest 申请人撤销
// POST /api/v1/reschedule-requests/:id/cancel
func (h *RescheduleHandler) CancelRequest(c *gin.Context) {
	h.doAction(c, h.rescheduleSvc.Cancel)
}

// RejectRequest 审批驳回
// POST /api/v1/reschedule-requests/:id/reject
func (h *RescheduleHandler) RejectRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.RejectRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.rescheduleSvc.Reject(c.Request.Context(), id, &req, callerID, callerRole)
	if err != nil {
		h.handleRescheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateRequest 编辑申请（仅被响应前）
// PUT /api/v1/reschedule-requests/:id
func (h *RescheduleHandler) UpdateRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.UpdateRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.rescheduleSvc.Update(c.Request.Context(), id, &req, callerID, callerRole)
	if err != nil {
		h.handleRescheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// SweepExpired 手动触发过期扫描（幂等，定时任务的管理入口）
// POST /api/v1/reschedule-requests/sweep-expired
func (h *RescheduleHandler) SweepExpired(c *gin.Context) {
	expired, err := h.rescheduleSvc.SweepExpired(c.Request.Context(), time.Now())
	if err != nil {
		h.handleRescheduleError(c, err)
		return
	}

	response.OK(c, dto.SweepExpiredResponse{Expired: expired})
}

// doAction 提取 accept/approve/cancel 共同的参数准备
func (h *RescheduleHandler) doAction(c *gin.Context, fn func(ctx context.Context, id, callerID, callerRole string) (*dto.RescheduleResponse, error)) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := fn(c.Request.Context(), id, callerID, callerRole)
	if err != nil {
		h.handleRescheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// handleRescheduleError 统一处理换班模块业务错误
// 状态/并发冲突 → 409，权限 → 403，改派下游失败 → 502
func (h *RescheduleHandler) handleRescheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 16001, "换班申请不存在")
	case errors.Is(err, service.ErrShiftNotFound):
		response.BadRequest(c, 16002, "班次不存在")
	case errors.Is(err, service.ErrShiftNotSwappable):
		response.BadRequest(c, 16003, "班次不可换，仅未开始的排班中班次可发起换班")
	case errors.Is(err, service.ErrTargetRequired):
		response.BadRequest(c, 16004, "该换班类型必须指定接班对象")
	case errors.Is(err, service.ErrTargetInvalid):
		response.BadRequest(c, 16005, "接班对象无效")
	case errors.Is(err, service.ErrDuplicateActive):
		response.Conflict(c, 16006, "该班次已有进行中的换班申请")
	case errors.Is(err, reschedule.ErrInvalidTransition):
		response.Conflict(c, 16007, "当前状态不允许该操作")
	case errors.Is(err, reschedule.ErrScheduleConflict):
		response.Conflict(c, 16008, "接班人在该时间段已有排班")
	case errors.Is(err, reschedule.ErrPermissionDenied):
		response.Forbidden(c, 16009, "无权执行该操作")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrShiftReassignFailed):
		response.BadGateway(c, 16010, "班次改派失败，审批已回滚")
	default:
		response.InternalError(c)
	}
}
