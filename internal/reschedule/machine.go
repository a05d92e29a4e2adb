package reschedule

// ── 状态机流转表 ──
//
// 以 (state, action) → next state 的查表方式表达全部合法流转，
// 避免散落在各处的条件判断。表中不存在的组合一律视为非法流转。
//
// expire 不入表：任何非终态在 expiresAt 过后都可流转到 expired，
// 由 Next 统一处理。edit 不产生状态变更，也不入表。
var transitions = map[State]map[Action]State{
	StatePendingBroadcast: {
		ActionAccept: StatePendingApproval,
		ActionCancel: StateCancelled,
	},
	StatePendingAcceptance: {
		ActionAccept: StatePendingApproval,
		ActionCancel: StateCancelled,
	},
	StatePendingApproval: {
		ActionApprove: StateApproved,
		ActionReject:  StateRejected,
	},
	StateApproved: {
		ActionComplete: StateCompleted,
	},
}

// Next 计算 (state, action) 的下一状态
// 非法组合返回 ErrInvalidTransition
func Next(state State, action Action) (State, error) {
	if action == ActionExpire {
		if IsTerminal(state) {
			return "", ErrInvalidTransition
		}
		return StateExpired, nil
	}

	// approved 在流转表中仅接受内部的 complete 动作，其余动作与终态同等对待
	if IsTerminal(state) && !(state == StateApproved && action == ActionComplete) {
		return "", ErrInvalidTransition
	}

	actions, ok := transitions[state]
	if !ok {
		return "", ErrInvalidTransition
	}
	next, ok := actions[action]
	if !ok {
		return "", ErrInvalidTransition
	}
	return next, nil
}

// CanAct 判断动作在当前状态下是否合法（不关心操作者）
func CanAct(state State, action Action) bool {
	if action == ActionEdit {
		return state == StatePendingBroadcast || state == StatePendingAcceptance
	}
	_, err := Next(state, action)
	return err == nil
}
