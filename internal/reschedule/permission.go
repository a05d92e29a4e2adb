package reschedule

import "sgms/backend/internal/model"

// CanPerform 权限裁决：操作者能否对申请执行指定动作
//
// 纯函数，不依赖存储。规则顺序：
//  1. 终态一律拒绝（返回 ErrInvalidTransition，先于角色规则）
//  2. 动作在当前状态下必须合法（ErrInvalidTransition）
//  3. 身份/角色规则（ErrPermissionDenied）
func CanPerform(action Action, req *model.RescheduleRequest, actorRole, actorID string) error {
	state := State(req.Status)

	if IsTerminal(state) {
		return ErrInvalidTransition
	}
	if !CanAct(state, action) {
		return ErrInvalidTransition
	}

	switch action {
	case ActionAccept:
		// 员工不能接自己广播的申请
		if actorID == req.RequesterStaffID {
			return ErrPermissionDenied
		}
		if !isEmployee(actorRole) {
			return ErrPermissionDenied
		}
		// 定向互换只有被指定的对象可以响应
		if state == StatePendingAcceptance {
			if req.TargetStaffID == nil || *req.TargetStaffID != actorID {
				return ErrPermissionDenied
			}
		}
		return nil

	case ActionApprove, ActionReject:
		// 经理/店长审批自己的申请暂不受限（业务策略缺口，见设计文档）
		if actorRole != model.RoleManager && actorRole != model.RoleOwner {
			return ErrPermissionDenied
		}
		return nil

	case ActionCancel, ActionEdit:
		if actorID != req.RequesterStaffID {
			return ErrPermissionDenied
		}
		return nil
	}

	return ErrPermissionDenied
}

func isEmployee(role string) bool {
	switch role {
	case model.RoleStaff, model.RoleManager, model.RoleOwner:
		return true
	}
	return false
}
