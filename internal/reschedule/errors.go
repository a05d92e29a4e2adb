package reschedule

import "errors"

// 核心状态机错误
// 每个被拒绝的流转返回带类型的错误，且不修改实体
var (
	// ErrInvalidTransition 当前状态不允许该动作（重新读取最新状态后可恢复）
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	// ErrPermissionDenied 操作者缺少执行该动作的身份或角色
	ErrPermissionDenied = errors.New("无权执行该操作")
	// ErrScheduleConflict 接班人已有班次与目标班次时间重叠
	ErrScheduleConflict = errors.New("接班人在该时间段已有排班")
)
