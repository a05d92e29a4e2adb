package reschedule

import (
	"time"

	"sgms/backend/internal/model"
)

// HasConflict 排班冲突检测
//
// 给定候选接班人现有班次集合与目标班次的时间窗 [start, end)，
// 任一 scheduled 状态的班次满足 existing.start < end && existing.end > start
// 即为冲突（半开区间重叠，与系统其他时段重叠判定口径一致）。
//
// excludeShiftIDs 用于排除本次协商中让出的班次（定向互换时
// 接班人自己交出的班次不应计入冲突）。
func HasConflict(existing []model.Shift, start, end time.Time, excludeShiftIDs ...string) bool {
	excluded := make(map[string]bool, len(excludeShiftIDs))
	for _, id := range excludeShiftIDs {
		excluded[id] = true
	}

	for i := range existing {
		sh := &existing[i]
		if sh.Status != model.ShiftStatusScheduled || excluded[sh.ShiftID] {
			continue
		}
		if sh.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// IsExpired 过期判定：非终态且 expiresAt 已过即视为过期
func IsExpired(status State, expiresAt, now time.Time) bool {
	return !IsTerminal(status) && now.After(expiresAt)
}
