//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sgms/backend/internal/model"
	"sgms/backend/internal/repository"
	pkgerrors "sgms/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=sgms password=sgms_password dbname=sgms_test sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	err = testDB.AutoMigrate(
		&model.Branch{},
		&model.User{},
		&model.Shift{},
		&model.ClassSession{},
		&model.RescheduleRequest{},
		&model.RequestStateLog{},
		&model.Notification{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupTestData 创建门店 + 两名员工 + 一个未来班次，返回清理函数
func setupTestData(t *testing.T) (branch *model.Branch, staff1, staff2 *model.User, shift *model.Shift, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	branch = &model.Branch{
		Name:     fmt.Sprintf("测试门店-%d", time.Now().UnixNano()),
		IsActive: true,
	}
	if err := testDB.WithContext(ctx).Create(branch).Error; err != nil {
		t.Fatalf("创建门店失败: %v", err)
	}

	staff1 = &model.User{
		Name:         "员工甲",
		Email:        fmt.Sprintf("staff1-%d@sgms.test", time.Now().UnixNano()),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleStaff,
		BranchID:     branch.BranchID,
		IsActive:     true,
	}
	staff2 = &model.User{
		Name:         "员工乙",
		Email:        fmt.Sprintf("staff2-%d@sgms.test", time.Now().UnixNano()),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleStaff,
		BranchID:     branch.BranchID,
		IsActive:     true,
	}
	for _, u := range []*model.User{staff1, staff2} {
		if err := testDB.WithContext(ctx).Create(u).Error; err != nil {
			t.Fatalf("创建员工失败: %v", err)
		}
	}

	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	shift = &model.Shift{
		StaffID:   staff1.UserID,
		BranchID:  branch.BranchID,
		StartTime: start,
		EndTime:   start.Add(8 * time.Hour),
		Status:    model.ShiftStatusScheduled,
	}
	if err := testDB.WithContext(ctx).Create(shift).Error; err != nil {
		t.Fatalf("创建班次失败: %v", err)
	}

	cleanup = func() {
		testDB.Unscoped().Where("branch_id = ?", branch.BranchID).Delete(&model.RescheduleRequest{})
		testDB.Unscoped().Where("shift_id = ?", shift.ShiftID).Delete(&model.Shift{})
		testDB.Unscoped().Where("user_id IN ?", []string{staff1.UserID, staff2.UserID}).Delete(&model.User{})
		testDB.Unscoped().Where("branch_id = ?", branch.BranchID).Delete(&model.Branch{})
	}
	return
}

func newTestRequest(shift *model.Shift, requesterID string) *model.RescheduleRequest {
	return &model.RescheduleRequest{
		OriginalShiftID:  shift.ShiftID,
		RequesterStaffID: requesterID,
		SwapType:         "find_replacement",
		Priority:         "medium",
		Reason:           "集成测试",
		Status:           "pending_broadcast",
		ExpiresAt:        time.Now().Add(24 * time.Hour),
		BranchID:         shift.BranchID,
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock（至多一个胜者）
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_RescheduleRequest_AtMostOneWinner(t *testing.T) {
	_, staff1, staff2, shift, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	req := newTestRequest(shift, staff1.UserID)
	if err := repo.Reschedule.Create(ctx, req); err != nil {
		t.Fatalf("创建换班申请失败: %v", err)
	}

	// 模拟两个抢班者同时读到同一版本
	copy1, _ := repo.Reschedule.GetByID(ctx, req.RequestID)
	copy2, _ := repo.Reschedule.GetByID(ctx, req.RequestID)

	copy1.Status = "pending_approval"
	copy1.TargetStaffID = &staff2.UserID
	if err := repo.Reschedule.Update(ctx, copy1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	copy2.Status = "pending_approval"
	copy2.TargetStaffID = &staff1.UserID
	err := repo.Reschedule.Update(ctx, copy2)
	if err == nil {
		t.Fatal("期望乐观锁冲突错误，但更新成功了")
	}
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}

	// 胜者的写入生效
	final, _ := repo.Reschedule.GetByID(ctx, req.RequestID)
	if final.TargetStaffID == nil || *final.TargetStaffID != staff2.UserID {
		t.Error("胜者锁定的接班人未持久化")
	}
}

func TestOptimisticLock_VersionIncrement(t *testing.T) {
	_, staff1, _, shift, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	req := newTestRequest(shift, staff1.UserID)
	if err := repo.Reschedule.Create(ctx, req); err != nil {
		t.Fatalf("创建换班申请失败: %v", err)
	}
	if req.Version != 1 {
		t.Errorf("初始 version 应为 1，得到: %d", req.Version)
	}

	for i := 0; i < 3; i++ {
		got, _ := repo.Reschedule.GetByID(ctx, req.RequestID)
		got.Priority = "high"
		if err := repo.Reschedule.Update(ctx, got); err != nil {
			t.Fatalf("第 %d 次更新失败: %v", i+1, err)
		}
	}

	final, _ := repo.Reschedule.GetByID(ctx, req.RequestID)
	if final.Version != 4 {
		t.Errorf("期望 version=4，得到: %d", final.Version)
	}
}

func TestOptimisticLock_Shift_ConflictDetected(t *testing.T) {
	_, _, staff2, shift, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	copy1, _ := repo.Shift.GetByID(ctx, shift.ShiftID)
	copy2, _ := repo.Shift.GetByID(ctx, shift.ShiftID)

	copy1.StaffID = staff2.UserID
	if err := repo.Shift.Update(ctx, copy1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	copy2.Notes = "落后的写入"
	if err := repo.Shift.Update(ctx, copy2); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction（审批 = 状态变更 + 班次改派 原子提交）
// ═══════════════════════════════════════════════════════════

func TestTransaction_ApproveRollback(t *testing.T) {
	_, staff1, staff2, shift, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	req := newTestRequest(shift, staff1.UserID)
	req.Status = "pending_approval"
	req.TargetStaffID = &staff2.UserID
	if err := repo.Reschedule.Create(ctx, req); err != nil {
		t.Fatalf("创建换班申请失败: %v", err)
	}

	boom := errors.New("模拟改派失败")
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		cur, err := txRepo.Reschedule.GetByID(ctx, req.RequestID)
		if err != nil {
			return err
		}
		cur.Status = "approved"
		if err := txRepo.Reschedule.Update(ctx, cur); err != nil {
			return err
		}
		// 状态写入后改派失败，整个事务必须回滚
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望事务返回注入的错误，得到: %v", err)
	}

	// 状态与班次归属都应保持事务前的值
	after, _ := repo.Reschedule.GetByID(ctx, req.RequestID)
	if after.Status != "pending_approval" {
		t.Errorf("回滚后状态应为 pending_approval，得到: %s", after.Status)
	}
	afterShift, _ := repo.Shift.GetByID(ctx, shift.ShiftID)
	if afterShift.StaffID != staff1.UserID {
		t.Errorf("回滚后班次归属不应改变，得到: %s", afterShift.StaffID)
	}
}

func TestTransaction_ApproveCommit(t *testing.T) {
	_, staff1, staff2, shift, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	req := newTestRequest(shift, staff1.UserID)
	req.Status = "pending_approval"
	req.TargetStaffID = &staff2.UserID
	if err := repo.Reschedule.Create(ctx, req); err != nil {
		t.Fatalf("创建换班申请失败: %v", err)
	}

	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		cur, err := txRepo.Reschedule.GetByID(ctx, req.RequestID)
		if err != nil {
			return err
		}
		cur.Status = "completed"
		if err := txRepo.Reschedule.Update(ctx, cur); err != nil {
			return err
		}
		s, err := txRepo.Shift.GetByID(ctx, shift.ShiftID)
		if err != nil {
			return err
		}
		s.StaffID = staff2.UserID
		return txRepo.Shift.Update(ctx, s)
	})
	if err != nil {
		t.Fatalf("审批事务应提交成功: %v", err)
	}

	after, _ := repo.Reschedule.GetByID(ctx, req.RequestID)
	if after.Status != "completed" {
		t.Errorf("提交后状态应为 completed，得到: %s", after.Status)
	}
	afterShift, _ := repo.Shift.GetByID(ctx, shift.ShiftID)
	if afterShift.StaffID != staff2.UserID {
		t.Errorf("提交后班次应改派给接班人，得到: %s", afterShift.StaffID)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 状态日志只增不改
// ═══════════════════════════════════════════════════════════

func TestStateLog_AppendAndOrder(t *testing.T) {
	_, staff1, _, shift, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	req := newTestRequest(shift, staff1.UserID)
	if err := repo.Reschedule.Create(ctx, req); err != nil {
		t.Fatalf("创建换班申请失败: %v", err)
	}

	from := "pending_broadcast"
	logs := []model.RequestStateLog{
		{RequestID: req.RequestID, ToState: "pending_broadcast", Reason: "集成测试", OperatorID: &staff1.UserID},
		{RequestID: req.RequestID, FromState: &from, ToState: "cancelled", OperatorID: &staff1.UserID},
	}
	for i := range logs {
		if err := repo.Reschedule.AppendStateLog(ctx, &logs[i]); err != nil {
			t.Fatalf("写入状态日志失败: %v", err)
		}
		// 保证 created_at 可区分先后
		time.Sleep(10 * time.Millisecond)
	}
	defer testDB.Unscoped().Where("request_id = ?", req.RequestID).Delete(&model.RequestStateLog{})

	got, err := repo.Reschedule.GetByIDWithLogs(ctx, req.RequestID)
	if err != nil {
		t.Fatalf("GetByIDWithLogs 失败: %v", err)
	}
	if len(got.StateLogs) != 2 {
		t.Fatalf("期望 2 条日志，得到 %d 条", len(got.StateLogs))
	}
	if got.StateLogs[0].FromState != nil {
		t.Error("首条日志 from_state 应为空")
	}
	if got.StateLogs[1].ToState != "cancelled" {
		t.Errorf("日志应按时间升序，第二条应为 cancelled，得到: %s", got.StateLogs[1].ToState)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 过期扫描查询 / 在途申请唯一性查询
// ═══════════════════════════════════════════════════════════

func TestListExpirable(t *testing.T) {
	_, staff1, _, shift, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	req := newTestRequest(shift, staff1.UserID)
	req.ExpiresAt = time.Now().Add(-time.Hour)
	if err := repo.Reschedule.Create(ctx, req); err != nil {
		t.Fatalf("创建换班申请失败: %v", err)
	}

	expirable, err := repo.Reschedule.ListExpirable(ctx, time.Now())
	if err != nil {
		t.Fatalf("ListExpirable 失败: %v", err)
	}
	found := false
	for _, e := range expirable {
		if e.RequestID == req.RequestID {
			found = true
		}
	}
	if !found {
		t.Error("已过期的在途申请应出现在扫描结果中")
	}

	// 流转到终态后不再出现
	cur, _ := repo.Reschedule.GetByID(ctx, req.RequestID)
	cur.Status = "expired"
	if err := repo.Reschedule.Update(ctx, cur); err != nil {
		t.Fatalf("更新状态失败: %v", err)
	}
	expirable, _ = repo.Reschedule.ListExpirable(ctx, time.Now())
	for _, e := range expirable {
		if e.RequestID == req.RequestID {
			t.Error("终态申请不应出现在过期扫描结果中")
		}
	}
}

func TestHasActiveForShift(t *testing.T) {
	_, staff1, _, shift, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	active, err := repo.Reschedule.HasActiveForShift(ctx, shift.ShiftID)
	if err != nil {
		t.Fatalf("HasActiveForShift 失败: %v", err)
	}
	if active {
		t.Error("无申请时应返回 false")
	}

	req := newTestRequest(shift, staff1.UserID)
	if err := repo.Reschedule.Create(ctx, req); err != nil {
		t.Fatalf("创建换班申请失败: %v", err)
	}

	active, _ = repo.Reschedule.HasActiveForShift(ctx, shift.ShiftID)
	if !active {
		t.Error("存在在途申请时应返回 true")
	}

	cur, _ := repo.Reschedule.GetByID(ctx, req.RequestID)
	cur.Status = "cancelled"
	if err := repo.Reschedule.Update(ctx, cur); err != nil {
		t.Fatalf("更新状态失败: %v", err)
	}
	active, _ = repo.Reschedule.HasActiveForShift(ctx, shift.ShiftID)
	if active {
		t.Error("申请进入终态后应返回 false")
	}
}
