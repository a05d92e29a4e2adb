package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sgms/backend/config"
	"sgms/backend/internal/dto"
	"sgms/backend/internal/model"
	"sgms/backend/internal/repository"
	"sgms/backend/internal/reschedule"
	pkgerrors "sgms/backend/pkg/errors"
)

// ── 换班模块业务错误 ──

var (
	ErrRequestNotFound     = errors.New("换班申请不存在")
	ErrDuplicateActive     = errors.New("该班次已有进行中的换班申请")
	ErrShiftNotSwappable   = errors.New("班次不可换，仅未开始的排班中班次可发起换班")
	ErrTargetRequired      = errors.New("该换班类型必须指定接班对象")
	ErrTargetInvalid       = errors.New("接班对象无效")
	ErrShiftReassignFailed = errors.New("班次改派失败，审批已回滚")
)

// 广播通知单次最大发送人数
const broadcastFanOutLimit = 200

// RescheduleService 换班申请业务接口
//
// 状态流转规则由 internal/reschedule 包的纯函数裁决，本层负责
// 存储读写、事务边界与通知。所有写路径经乐观锁提交，并发竞争
// 同一申请时最多一方成功，失败方收到 pkgerrors.ErrOptimisticLock。
type RescheduleService interface {
	Create(ctx context.Context, req *dto.CreateRescheduleRequest, callerID, callerRole, callerBranchID string) (*dto.RescheduleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RescheduleResponse, error)
	List(ctx context.Context, req *dto.RescheduleListRequest) ([]dto.RescheduleResponse, int64, error)
	ListOpenBroadcast(ctx context.Context, branchID string) ([]dto.RescheduleResponse, error)
	ListMy(ctx context.Context, staffID string, page *dto.PaginationRequest) ([]dto.RescheduleResponse, int64, error)
	Accept(ctx context.Context, id, callerID, callerRole string) (*dto.RescheduleResponse, error)
	Approve(ctx context.Context, id, callerID, callerRole string) (*dto.RescheduleResponse, error)
	Reject(ctx context.Context, id string, req *dto.RejectRescheduleRequest, callerID, callerRole string) (*dto.RescheduleResponse, error)
	Cancel(ctx context.Context, id, callerID, callerRole string) (*dto.RescheduleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRescheduleRequest, callerID, callerRole string) (*dto.RescheduleResponse, error)
	// SweepExpired 过期扫描：把所有已过 expires_at 的非终态申请流转到 expired。
	// 幂等，可由定时任务与管理接口重复触发。
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

type rescheduleService struct {
	cfg      *config.Config
	repo     *repository.Repository
	notifier NotificationService
	logger   *zap.Logger
}

// NewRescheduleService 创建 RescheduleService 实例
func NewRescheduleService(cfg *config.Config, repo *repository.Repository, notifier NotificationService, logger *zap.Logger) RescheduleService {
	return &rescheduleService{cfg: cfg, repo: repo, notifier: notifier, logger: logger}
}

func (s *rescheduleService) Create(ctx context.Context, req *dto.CreateRescheduleRequest, callerID, callerRole, callerBranchID string) (*dto.RescheduleResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, req.OriginalShiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	now := time.Now()
	if shift.Status != model.ShiftStatusScheduled || !shift.StartTime.After(now) {
		return nil, ErrShiftNotSwappable
	}

	switch req.SwapType {
	case reschedule.SwapManagerAssign:
		// 经理指派：由经理/店长替员工安排接班人，直接进入待审批
		if callerRole != model.RoleManager && callerRole != model.RoleOwner {
			return nil, reschedule.ErrPermissionDenied
		}
		if req.TargetStaffID == nil {
			return nil, ErrTargetRequired
		}
	case reschedule.SwapDirectSwap:
		if shift.StaffID != callerID {
			return nil, reschedule.ErrPermissionDenied
		}
		if req.TargetStaffID == nil || req.TargetShiftID == nil {
			return nil, ErrTargetRequired
		}
	default: // find_replacement
		if shift.StaffID != callerID {
			return nil, reschedule.ErrPermissionDenied
		}
	}

	if req.TargetStaffID != nil {
		if err := s.validateTarget(ctx, req, shift); err != nil {
			return nil, err
		}
	}

	hasActive, err := s.repo.Reschedule.HasActiveForShift(ctx, req.OriginalShiftID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, ErrDuplicateActive
	}

	priority := req.Priority
	if priority == "" {
		priority = reschedule.PriorityMedium
	}

	// 有效期取 TTL 与班次开始时间中更早者，班次开始后申请无意义
	expiresAt := now.Add(s.cfg.Reschedule.RequestTTL)
	if expiresAt.After(shift.StartTime) {
		expiresAt = shift.StartTime
	}

	entity := &model.RescheduleRequest{
		OriginalShiftID:  req.OriginalShiftID,
		RequesterStaffID: callerID,
		TargetStaffID:    req.TargetStaffID,
		TargetShiftID:    req.TargetShiftID,
		SwapType:         req.SwapType,
		Priority:         priority,
		Reason:           req.Reason,
		Status:           string(reschedule.InitialState(req.SwapType)),
		ExpiresAt:        expiresAt,
		BranchID:         shift.BranchID,
	}
	entity.CreatedBy = &callerID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Reschedule.Create(ctx, entity); err != nil {
			return err
		}
		return tx.Reschedule.AppendStateLog(ctx, &model.RequestStateLog{
			RequestID:  entity.RequestID,
			FromState:  nil,
			ToState:    entity.Status,
			Reason:     req.Reason,
			OperatorID: &callerID,
		})
	})
	if err != nil {
		s.logger.Error("创建换班申请失败",
			zap.String("original_shift_id", req.OriginalShiftID),
			zap.Error(err))
		return nil, err
	}

	s.notifyCreated(ctx, entity, shift)

	return s.respond(ctx, entity.RequestID)
}

// validateTarget 校验接班对象及其让出的班次
func (s *rescheduleService) validateTarget(ctx context.Context, req *dto.CreateRescheduleRequest, shift *model.Shift) error {
	target, err := s.repo.User.GetByID(ctx, *req.TargetStaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetInvalid
		}
		return err
	}
	if !target.IsActive || target.UserID == shift.StaffID {
		return ErrTargetInvalid
	}

	if req.SwapType == reschedule.SwapDirectSwap {
		targetShift, err := s.repo.Shift.GetByID(ctx, *req.TargetShiftID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTargetInvalid
			}
			return err
		}
		if targetShift.StaffID != target.UserID ||
			targetShift.Status != model.ShiftStatusScheduled ||
			!targetShift.StartTime.After(time.Now()) {
			return ErrTargetInvalid
		}
	}

	// 定向互换/经理指派在创建时即做一次冲突预检，避免发起注定失败的协商
	excludes := []string{}
	if req.TargetShiftID != nil {
		excludes = append(excludes, *req.TargetShiftID)
	}
	targetShifts, err := s.repo.Shift.ListByStaff(ctx, target.UserID, model.ShiftStatusScheduled)
	if err != nil {
		return err
	}
	if reschedule.HasConflict(targetShifts, shift.StartTime, shift.EndTime, excludes...) {
		return reschedule.ErrScheduleConflict
	}
	return nil
}

func (s *rescheduleService) GetByID(ctx context.Context, id string) (*dto.RescheduleResponse, error) {
	entity, err := s.repo.Reschedule.GetByIDWithLogs(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	// 读时惰性过期：已过有效期的申请先流转到 expired 再返回
	if reschedule.IsExpired(reschedule.State(entity.Status), entity.ExpiresAt, time.Now()) {
		if err := s.expire(ctx, entity, nil); err != nil && !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		return s.respond(ctx, id)
	}

	resp := toRescheduleResponse(entity)
	return &resp, nil
}

func (s *rescheduleService) List(ctx context.Context, req *dto.RescheduleListRequest) ([]dto.RescheduleResponse, int64, error) {
	entities, total, err := s.repo.Reschedule.List(ctx, repository.RescheduleFilter{
		BranchID: req.BranchID,
		Status:   req.Status,
		SwapType: req.SwapType,
		Offset:   req.GetOffset(),
		Limit:    req.GetPageSize(),
	})
	if err != nil {
		return nil, 0, err
	}
	return toRescheduleResponses(entities), total, nil
}

func (s *rescheduleService) ListOpenBroadcast(ctx context.Context, branchID string) ([]dto.RescheduleResponse, error) {
	entities, err := s.repo.Reschedule.ListOpenBroadcast(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return toRescheduleResponses(entities), nil
}

func (s *rescheduleService) ListMy(ctx context.Context, staffID string, page *dto.PaginationRequest) ([]dto.RescheduleResponse, int64, error) {
	entities, total, err := s.repo.Reschedule.ListByStaff(ctx, staffID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return toRescheduleResponses(entities), total, nil
}

func (s *rescheduleService) Accept(ctx context.Context, id, callerID, callerRole string) (*dto.RescheduleResponse, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := reschedule.CanPerform(reschedule.ActionAccept, entity, callerRole, callerID); err != nil {
		return nil, err
	}

	shift, err := s.repo.Shift.GetByID(ctx, entity.OriginalShiftID)
	if err != nil {
		return nil, err
	}
	if shift.Status != model.ShiftStatusScheduled {
		return nil, ErrShiftNotSwappable
	}

	// 接班人自己的排班与目标班次时间窗不得重叠；
	// 定向互换时接班人让出的班次不计入冲突
	excludes := []string{}
	if entity.TargetShiftID != nil {
		excludes = append(excludes, *entity.TargetShiftID)
	}
	acceptorShifts, err := s.repo.Shift.ListByStaff(ctx, callerID, model.ShiftStatusScheduled)
	if err != nil {
		return nil, err
	}
	if reschedule.HasConflict(acceptorShifts, shift.StartTime, shift.EndTime, excludes...) {
		return nil, reschedule.ErrScheduleConflict
	}

	// 定向互换反向同查：申请人接手对方班次也不得冲突
	if entity.SwapType == reschedule.SwapDirectSwap && entity.TargetShiftID != nil {
		targetShift, err := s.repo.Shift.GetByID(ctx, *entity.TargetShiftID)
		if err != nil {
			return nil, err
		}
		requesterShifts, err := s.repo.Shift.ListByStaff(ctx, entity.RequesterStaffID, model.ShiftStatusScheduled)
		if err != nil {
			return nil, err
		}
		if reschedule.HasConflict(requesterShifts, targetShift.StartTime, targetShift.EndTime, entity.OriginalShiftID) {
			return nil, reschedule.ErrScheduleConflict
		}
	}

	from := entity.Status
	next, err := reschedule.Next(reschedule.State(entity.Status), reschedule.ActionAccept)
	if err != nil {
		return nil, err
	}
	if entity.Status == string(reschedule.StatePendingBroadcast) {
		// 广播池先到先得：在此锁定接班人，乐观锁保证至多一人成功
		acceptor := callerID
		entity.TargetStaffID = &acceptor
	}
	entity.Status = string(next)
	entity.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Reschedule.Update(ctx, entity); err != nil {
			return err
		}
		return tx.Reschedule.AppendStateLog(ctx, &model.RequestStateLog{
			RequestID:  entity.RequestID,
			FromState:  &from,
			ToState:    entity.Status,
			OperatorID: &callerID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyRescheduleEvent(ctx, NotifyRescheduleAccepted,
		"换班申请已有人响应",
		fmt.Sprintf("您的换班申请已被响应，等待审批（申请 %s）", entity.RequestID),
		entity.RequestID, entity.RequesterStaffID)

	return s.respond(ctx, id)
}

func (s *rescheduleService) Approve(ctx context.Context, id, callerID, callerRole string) (*dto.RescheduleResponse, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := reschedule.CanPerform(reschedule.ActionApprove, entity, callerRole, callerID); err != nil {
		return nil, err
	}
	if entity.TargetStaffID == nil {
		return nil, ErrTargetRequired
	}

	shift, err := s.repo.Shift.GetByID(ctx, entity.OriginalShiftID)
	if err != nil {
		return nil, err
	}
	if shift.Status != model.ShiftStatusScheduled {
		return nil, ErrShiftNotSwappable
	}

	// 审批落锤前复核冲突：接受与审批之间接班人可能新增了排班
	excludes := []string{}
	if entity.TargetShiftID != nil {
		excludes = append(excludes, *entity.TargetShiftID)
	}
	targetShifts, err := s.repo.Shift.ListByStaff(ctx, *entity.TargetStaffID, model.ShiftStatusScheduled)
	if err != nil {
		return nil, err
	}
	if reschedule.HasConflict(targetShifts, shift.StartTime, shift.EndTime, excludes...) {
		return nil, reschedule.ErrScheduleConflict
	}

	requesterID := entity.RequesterStaffID
	targetID := *entity.TargetStaffID

	// approved 是瞬时态：审批通过、班次改派、折叠到 completed
	// 三步同一事务提交，改派失败整体回滚到 pending_approval
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		from := entity.Status
		entity.Status = string(reschedule.StateApproved)
		entity.UpdatedBy = &callerID
		if err := tx.Reschedule.Update(ctx, entity); err != nil {
			return err
		}
		if err := tx.Reschedule.AppendStateLog(ctx, &model.RequestStateLog{
			RequestID:  entity.RequestID,
			FromState:  &from,
			ToState:    entity.Status,
			OperatorID: &callerID,
		}); err != nil {
			return err
		}

		shift.StaffID = targetID
		shift.UpdatedBy = &callerID
		if err := tx.Shift.Update(ctx, shift); err != nil {
			return fmt.Errorf("%w: %v", ErrShiftReassignFailed, err)
		}

		if entity.SwapType == reschedule.SwapDirectSwap && entity.TargetShiftID != nil {
			targetShift, err := tx.Shift.GetByID(ctx, *entity.TargetShiftID)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrShiftReassignFailed, err)
			}
			targetShift.StaffID = requesterID
			targetShift.UpdatedBy = &callerID
			if err := tx.Shift.Update(ctx, targetShift); err != nil {
				return fmt.Errorf("%w: %v", ErrShiftReassignFailed, err)
			}
		}

		from = entity.Status
		entity.Status = string(reschedule.StateCompleted)
		if err := tx.Reschedule.Update(ctx, entity); err != nil {
			return err
		}
		return tx.Reschedule.AppendStateLog(ctx, &model.RequestStateLog{
			RequestID:  entity.RequestID,
			FromState:  &from,
			ToState:    entity.Status,
			OperatorID: &callerID,
		})
	})
	if err != nil {
		if errors.Is(err, ErrShiftReassignFailed) {
			s.logger.Error("换班审批回滚：班次改派失败",
				zap.String("request_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.notifier.NotifyRescheduleEvent(ctx, NotifyRescheduleApproved,
		"换班申请已批准",
		fmt.Sprintf("换班申请已批准并完成班次改派（申请 %s）", entity.RequestID),
		entity.RequestID, requesterID, targetID)

	return s.respond(ctx, id)
}

func (s *rescheduleService) Reject(ctx context.Context, id string, req *dto.RejectRescheduleRequest, callerID, callerRole string) (*dto.RescheduleResponse, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := reschedule.CanPerform(reschedule.ActionReject, entity, callerRole, callerID); err != nil {
		return nil, err
	}

	from := entity.Status
	entity.Status = string(reschedule.StateRejected)
	entity.RejectionReason = req.RejectionReason
	entity.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Reschedule.Update(ctx, entity); err != nil {
			return err
		}
		return tx.Reschedule.AppendStateLog(ctx, &model.RequestStateLog{
			RequestID:  entity.RequestID,
			FromState:  &from,
			ToState:    entity.Status,
			Reason:     req.RejectionReason,
			OperatorID: &callerID,
		})
	})
	if err != nil {
		return nil, err
	}

	recipients := []string{entity.RequesterStaffID}
	if entity.TargetStaffID != nil {
		recipients = append(recipients, *entity.TargetStaffID)
	}
	s.notifier.NotifyRescheduleEvent(ctx, NotifyRescheduleRejected,
		"换班申请已驳回",
		fmt.Sprintf("换班申请已被驳回：%s", req.RejectionReason),
		entity.RequestID, recipients...)

	return s.respond(ctx, id)
}

func (s *rescheduleService) Cancel(ctx context.Context, id, callerID, callerRole string) (*dto.RescheduleResponse, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := reschedule.CanPerform(reschedule.ActionCancel, entity, callerRole, callerID); err != nil {
		return nil, err
	}

	from := entity.Status
	entity.Status = string(reschedule.StateCancelled)
	entity.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Reschedule.Update(ctx, entity); err != nil {
			return err
		}
		return tx.Reschedule.AppendStateLog(ctx, &model.RequestStateLog{
			RequestID:  entity.RequestID,
			FromState:  &from,
			ToState:    entity.Status,
			OperatorID: &callerID,
		})
	})
	if err != nil {
		return nil, err
	}

	if entity.TargetStaffID != nil {
		s.notifier.NotifyRescheduleEvent(ctx, NotifyRescheduleCancelled,
			"换班申请已撤销",
			fmt.Sprintf("申请人撤销了换班申请（申请 %s）", entity.RequestID),
			entity.RequestID, *entity.TargetStaffID)
	}

	return s.respond(ctx, id)
}

func (s *rescheduleService) Update(ctx context.Context, id string, req *dto.UpdateRescheduleRequest, callerID, callerRole string) (*dto.RescheduleResponse, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := reschedule.CanPerform(reschedule.ActionEdit, entity, callerRole, callerID); err != nil {
		return nil, err
	}

	if req.Reason != nil {
		entity.Reason = *req.Reason
	}
	if req.Priority != nil {
		entity.Priority = *req.Priority
	}
	entity.UpdatedBy = &callerID

	// 编辑不产生状态流转，不写状态日志
	if err := s.repo.Reschedule.Update(ctx, entity); err != nil {
		return nil, err
	}
	return s.respond(ctx, id)
}

func (s *rescheduleService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	entities, err := s.repo.Reschedule.ListExpirable(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range entities {
		entity := &entities[i]
		if err := s.expire(ctx, entity, nil); err != nil {
			// 乐观锁失败说明有操作者刚好抢先流转了该申请，跳过即可
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				continue
			}
			return expired, err
		}
		expired++

		s.notifier.NotifyRescheduleEvent(ctx, NotifyRescheduleExpired,
			"换班申请已过期",
			fmt.Sprintf("换班申请超过有效期未完成，已自动关闭（申请 %s）", entity.RequestID),
			entity.RequestID, entity.RequesterStaffID)
	}

	if expired > 0 {
		s.logger.Info("过期换班申请扫描完成", zap.Int("expired", expired))
	}
	return expired, nil
}

// ── 内部辅助 ──

// load 读取申请并做惰性过期，过期申请对任何动作返回非法流转
func (s *rescheduleService) load(ctx context.Context, id string) (*model.RescheduleRequest, error) {
	entity, err := s.repo.Reschedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if reschedule.IsExpired(reschedule.State(entity.Status), entity.ExpiresAt, time.Now()) {
		if err := s.expire(ctx, entity, nil); err != nil && !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		return nil, reschedule.ErrInvalidTransition
	}
	return entity, nil
}

// expire 把单个申请流转到 expired，operatorID 为空表示系统动作
func (s *rescheduleService) expire(ctx context.Context, entity *model.RescheduleRequest, operatorID *string) error {
	from := entity.Status
	entity.Status = string(reschedule.StateExpired)
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Reschedule.Update(ctx, entity); err != nil {
			return err
		}
		return tx.Reschedule.AppendStateLog(ctx, &model.RequestStateLog{
			RequestID:  entity.RequestID,
			FromState:  &from,
			ToState:    entity.Status,
			Reason:     "已过有效期",
			OperatorID: operatorID,
		})
	})
}

func (s *rescheduleService) notifyCreated(ctx context.Context, entity *model.RescheduleRequest, shift *model.Shift) {
	switch entity.SwapType {
	case reschedule.SwapDirectSwap:
		s.notifier.NotifyRescheduleEvent(ctx, NotifyRescheduleCreated,
			"收到定向换班邀请",
			fmt.Sprintf("有同事邀请与您互换班次（申请 %s）", entity.RequestID),
			entity.RequestID, *entity.TargetStaffID)
	case reschedule.SwapManagerAssign:
		recipients := []string{*entity.TargetStaffID, shift.StaffID}
		s.notifier.NotifyRescheduleEvent(ctx, NotifyRescheduleCreated,
			"收到换班指派",
			fmt.Sprintf("经理发起了班次改派（申请 %s）", entity.RequestID),
			entity.RequestID, recipients...)
	default:
		// 广播：通知同门店所有在职员工
		users, _, err := s.repo.User.List(ctx, entity.BranchID, "", 0, broadcastFanOutLimit)
		if err != nil {
			s.logger.Warn("广播换班通知失败", zap.String("request_id", entity.RequestID), zap.Error(err))
			return
		}
		recipients := make([]string, 0, len(users))
		for i := range users {
			u := &users[i]
			if !u.IsActive || u.UserID == entity.RequesterStaffID {
				continue
			}
			recipients = append(recipients, u.UserID)
		}
		s.notifier.NotifyRescheduleEvent(ctx, NotifyRescheduleCreated,
			"有新的顶班机会",
			fmt.Sprintf("有同事发起了找人顶班（申请 %s），先到先得", entity.RequestID),
			entity.RequestID, recipients...)
	}
}

// respond 重新读取带状态日志的最新快照并转为响应
func (s *rescheduleService) respond(ctx context.Context, id string) (*dto.RescheduleResponse, error) {
	entity, err := s.repo.Reschedule.GetByIDWithLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRescheduleResponse(entity)
	return &resp, nil
}

func toRescheduleResponse(entity *model.RescheduleRequest) dto.RescheduleResponse {
	resp := dto.RescheduleResponse{
		ID:              entity.RequestID,
		Requester:       toStaffBrief(entity.Requester),
		Target:          toStaffBrief(entity.Target),
		SwapType:        entity.SwapType,
		Priority:        entity.Priority,
		Reason:          entity.Reason,
		Status:          entity.Status,
		RejectionReason: entity.RejectionReason,
		ExpiresAt:       entity.ExpiresAt.Format(time.RFC3339),
		BranchID:        entity.BranchID,
		CreatedAt:       entity.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       entity.UpdatedAt.Format(time.RFC3339),
	}
	if entity.OriginalShift != nil {
		shift := toShiftResponse(entity.OriginalShift)
		resp.OriginalShift = &shift
	}
	if entity.TargetShift != nil {
		shift := toShiftResponse(entity.TargetShift)
		resp.TargetShift = &shift
	}
	for i := range entity.StateLogs {
		log := &entity.StateLogs[i]
		entry := dto.RequestStateLogEntry{
			ToState:   log.ToState,
			Reason:    log.Reason,
			ChangedAt: log.CreatedAt.Format(time.RFC3339),
		}
		if log.FromState != nil {
			entry.FromState = *log.FromState
		}
		if log.OperatorID != nil {
			entry.OperatorID = *log.OperatorID
		}
		resp.StateLogs = append(resp.StateLogs, entry)
	}
	return resp
}

func toRescheduleResponses(entities []model.RescheduleRequest) []dto.RescheduleResponse {
	resps := make([]dto.RescheduleResponse, 0, len(entities))
	for i := range entities {
		resps = append(resps, toRescheduleResponse(&entities[i]))
	}
	return resps
}
