package reschedule

import (
	"testing"
	"time"

	"sgms/backend/internal/model"
)

func mkShift(id string, status string, start, end time.Time) model.Shift {
	return model.Shift{ShiftID: id, Status: status, StartTime: start, EndTime: end}
}

func TestHasConflict_Overlap(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

	cases := []struct {
		name       string
		shiftStart int
		shiftEnd   int
		want       bool
	}{
		{"部分重叠（前）", 9, 11, true},  // 目标 10:00-12:00
		{"部分重叠（后）", 11, 13, true},
		{"完全包含", 9, 13, true},
		{"被包含", 10, 11, true},
		{"完全相同", 10, 12, true},
		{"首尾相接（之前）", 8, 10, false}, // 半开区间：10:00 结束不算冲突
		{"首尾相接（之后）", 12, 14, false},
		{"完全无关", 14, 16, false},
	}

	for _, c := range cases {
		existing := []model.Shift{
			mkShift("sh-x", model.ShiftStatusScheduled, at(c.shiftStart), at(c.shiftEnd)),
		}
		got := HasConflict(existing, at(10), at(12))
		if got != c.want {
			t.Errorf("%s: 期望冲突=%v，实际=%v", c.name, c.want, got)
		}
	}
}

func TestHasConflict_OnlyScheduledCounts(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	existing := []model.Shift{
		mkShift("sh-1", model.ShiftStatusCancelled, day.Add(9*time.Hour), day.Add(11*time.Hour)),
		mkShift("sh-2", model.ShiftStatusReleased, day.Add(10*time.Hour), day.Add(12*time.Hour)),
	}

	if HasConflict(existing, day.Add(10*time.Hour), day.Add(12*time.Hour)) {
		t.Error("非 scheduled 班次不应计入冲突")
	}
}

func TestHasConflict_ExcludeOwnSwapShift(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	existing := []model.Shift{
		mkShift("sh-mine", model.ShiftStatusScheduled, day.Add(10*time.Hour), day.Add(12*time.Hour)),
	}

	// 定向互换中接班人交出的班次不计入冲突
	if HasConflict(existing, day.Add(10*time.Hour), day.Add(12*time.Hour), "sh-mine") {
		t.Error("被排除的班次不应计入冲突")
	}
	if !HasConflict(existing, day.Add(10*time.Hour), day.Add(12*time.Hour)) {
		t.Error("未排除时应检出冲突")
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	if !IsExpired(StatePendingBroadcast, now.Add(-time.Second), now) {
		t.Error("过期的非终态应判定为已过期")
	}
	if IsExpired(StatePendingBroadcast, now.Add(time.Hour), now) {
		t.Error("未到期不应判定为已过期")
	}
	if IsExpired(StateCompleted, now.Add(-time.Hour), now) {
		t.Error("终态不参与过期判定")
	}
}
