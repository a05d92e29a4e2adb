package reschedule

// State 换班申请状态
type State string

// 状态集合
const (
	StatePendingBroadcast  State = "pending_broadcast"  // 广播中：等待任意员工自愿接班
	StatePendingAcceptance State = "pending_acceptance" // 定向等待：等待指定互换对象响应
	StatePendingApproval   State = "pending_approval"   // 待审批：等待经理/店长裁决
	StateApproved          State = "approved"           // 已批准（瞬时态，同一事务内折叠为 completed）
	StateRejected          State = "rejected"           // 已驳回
	StateCancelled         State = "cancelled"          // 已撤销
	StateExpired           State = "expired"            // 已过期
	StateCompleted         State = "completed"          // 已完成
)

// Action 状态机动作
type Action string

const (
	ActionAccept   Action = "accept"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionEdit     Action = "edit"     // 修改 reason/priority，不产生状态流转
	ActionComplete Action = "complete" // 内部动作：approved → completed
	ActionExpire   Action = "expire"   // 过期扫描
)

// 换班类型
const (
	SwapFindReplacement = "find_replacement" // 找人顶班（广播）
	SwapDirectSwap      = "direct_swap"      // 定向互换
	SwapManagerAssign   = "manager_assign"   // 经理指派
)

// 优先级（仅供展示，不影响流转逻辑）
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// terminalStates 终态集合：进入后实体不再允许任何流转
// approved 理论上是瞬时态，防御性地也视为终态
var terminalStates = map[State]bool{
	StateApproved:  true,
	StateRejected:  true,
	StateCancelled: true,
	StateExpired:   true,
	StateCompleted: true,
}

// IsTerminal 判断是否为终态
func IsTerminal(s State) bool { return terminalStates[s] }

// ValidSwapType 判断换班类型是否合法
func ValidSwapType(t string) bool {
	switch t {
	case SwapFindReplacement, SwapDirectSwap, SwapManagerAssign:
		return true
	}
	return false
}

// ValidPriority 判断优先级是否合法
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// InitialState 按换班类型返回创建时的初始状态
//   - find_replacement: 广播给全体可接班员工
//   - direct_swap:      定向等待指定互换对象响应
//   - manager_assign:   经理发起，本身持有审批权，直接进入待审批
func InitialState(swapType string) State {
	switch swapType {
	case SwapDirectSwap:
		return StatePendingAcceptance
	case SwapManagerAssign:
		return StatePendingApproval
	default:
		return StatePendingBroadcast
	}
}
