package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"sgms/backend/internal/model"
	"sgms/backend/internal/repository"
	pkgerrors "sgms/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, branchID, role string, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if branchID != "" && u.BranchID != branchID {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

// ── Mock BranchRepository ──

type mockBranchRepo struct {
	branches map[string]*model.Branch
}

func newMockBranchRepo() *mockBranchRepo {
	return &mockBranchRepo{branches: make(map[string]*model.Branch)}
}

func (m *mockBranchRepo) Create(_ context.Context, branch *model.Branch) error {
	if branch.BranchID == "" {
		branch.BranchID = "branch-" + branch.Name
	}
	m.branches[branch.BranchID] = branch
	return nil
}

func (m *mockBranchRepo) GetByID(_ context.Context, id string) (*model.Branch, error) {
	if b, ok := m.branches[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBranchRepo) List(_ context.Context) ([]model.Branch, error) {
	var result []model.Branch
	for _, b := range m.branches {
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBranchRepo) Update(_ context.Context, branch *model.Branch) error {
	m.branches[branch.BranchID] = branch
	return nil
}

func (m *mockBranchRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.branches, id)
	return nil
}

// ── Mock ShiftRepository ──

// mockShiftRepo 与真实仓储一致做 (id, version) 乐观锁比较。
// failUpdateFor 用于模拟改派写库失败。
type mockShiftRepo struct {
	shifts        map[string]*model.Shift
	failUpdateFor map[string]bool
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{
		shifts:        make(map[string]*model.Shift),
		failUpdateFor: make(map[string]bool),
	}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	if shift.ShiftID == "" {
		shift.ShiftID = fmt.Sprintf("shift-%d", len(m.shifts)+1)
	}
	if shift.Version == 0 {
		shift.Version = 1
	}
	stored := *shift
	m.shifts[shift.ShiftID] = &stored
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	if s, ok := m.shifts[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) ListByStaff(_ context.Context, staffID, status string) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.StaffID != staffID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockShiftRepo) ListByStaffRange(_ context.Context, staffID string, from, to time.Time) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.StaffID != staffID {
			continue
		}
		if s.StartTime.Before(from) || !s.StartTime.Before(to) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (m *mockShiftRepo) ListByBranch(_ context.Context, branchID string, from, to time.Time, staffID string, offset, limit int) ([]model.Shift, int64, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.BranchID != branchID {
			continue
		}
		if staffID != "" && s.StaffID != staffID {
			continue
		}
		if s.StartTime.Before(from) || !s.StartTime.Before(to) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, int64(len(result)), nil
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	if m.failUpdateFor[shift.ShiftID] {
		return fmt.Errorf("模拟写库失败")
	}
	stored, ok := m.shifts[shift.ShiftID]
	if !ok || stored.Version != shift.Version {
		return pkgerrors.ErrOptimisticLock
	}
	shift.Version++
	copied := *shift
	m.shifts[shift.ShiftID] = &copied
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.shifts, id)
	return nil
}

// ── Mock ClassSessionRepository ──

type mockClassSessionRepo struct {
	sessions map[string]*model.ClassSession
}

func newMockClassSessionRepo() *mockClassSessionRepo {
	return &mockClassSessionRepo{sessions: make(map[string]*model.ClassSession)}
}

func (m *mockClassSessionRepo) Create(_ context.Context, session *model.ClassSession) error {
	if session.ClassSessionID == "" {
		session.ClassSessionID = fmt.Sprintf("class-%d", len(m.sessions)+1)
	}
	m.sessions[session.ClassSessionID] = session
	return nil
}

func (m *mockClassSessionRepo) GetByID(_ context.Context, id string) (*model.ClassSession, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassSessionRepo) ListByBranch(_ context.Context, branchID string, from, to time.Time) ([]model.ClassSession, error) {
	var result []model.ClassSession
	for _, s := range m.sessions {
		if s.BranchID != branchID {
			continue
		}
		if s.StartTime.Before(from) || !s.StartTime.Before(to) {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockClassSessionRepo) Update(_ context.Context, session *model.ClassSession) error {
	m.sessions[session.ClassSessionID] = session
	return nil
}

func (m *mockClassSessionRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.sessions, id)
	return nil
}

// ── Mock RescheduleRequestRepository ──

// mockRescheduleRepo 的 GetByID 返回副本、Update 按 (id, version)
// 比较后交换，与真实仓储行为一致，用于覆盖并发竞争场景。
type mockRescheduleRepo struct {
	requests map[string]*model.RescheduleRequest
	logs     []model.RequestStateLog
}

func newMockRescheduleRepo() *mockRescheduleRepo {
	return &mockRescheduleRepo{requests: make(map[string]*model.RescheduleRequest)}
}

var mockActiveStates = map[string]bool{
	"pending_broadcast":  true,
	"pending_acceptance": true,
	"pending_approval":   true,
}

func (m *mockRescheduleRepo) Create(_ context.Context, req *model.RescheduleRequest) error {
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("req-%d", len(m.requests)+1)
	}
	if req.Version == 0 {
		req.Version = 1
	}
	stored := *req
	m.requests[req.RequestID] = &stored
	return nil
}

func (m *mockRescheduleRepo) GetByID(_ context.Context, id string) (*model.RescheduleRequest, error) {
	if r, ok := m.requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRescheduleRepo) GetByIDWithLogs(ctx context.Context, id string) (*model.RescheduleRequest, error) {
	req, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, log := range m.logs {
		if log.RequestID == id {
			req.StateLogs = append(req.StateLogs, log)
		}
	}
	return req, nil
}

func (m *mockRescheduleRepo) List(_ context.Context, filter repository.RescheduleFilter) ([]model.RescheduleRequest, int64, error) {
	var result []model.RescheduleRequest
	for _, r := range m.requests {
		if filter.BranchID != "" && r.BranchID != filter.BranchID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.SwapType != "" && r.SwapType != filter.SwapType {
			continue
		}
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

func (m *mockRescheduleRepo) ListOpenBroadcast(_ context.Context, branchID string) ([]model.RescheduleRequest, error) {
	now := time.Now()
	var result []model.RescheduleRequest
	for _, r := range m.requests {
		if r.BranchID == branchID && r.Status == "pending_broadcast" && r.ExpiresAt.After(now) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRescheduleRepo) ListByStaff(_ context.Context, staffID string, offset, limit int) ([]model.RescheduleRequest, int64, error) {
	var result []model.RescheduleRequest
	for _, r := range m.requests {
		if r.RequesterStaffID == staffID || (r.TargetStaffID != nil && *r.TargetStaffID == staffID) {
			result = append(result, *r)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockRescheduleRepo) ListExpirable(_ context.Context, now time.Time) ([]model.RescheduleRequest, error) {
	var result []model.RescheduleRequest
	for _, r := range m.requests {
		if mockActiveStates[r.Status] && r.ExpiresAt.Before(now) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestID < result[j].RequestID })
	return result, nil
}

func (m *mockRescheduleRepo) HasActiveForShift(_ context.Context, shiftID string) (bool, error) {
	for _, r := range m.requests {
		if r.OriginalShiftID == shiftID && mockActiveStates[r.Status] {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRescheduleRepo) Update(_ context.Context, req *model.RescheduleRequest) error {
	stored, ok := m.requests[req.RequestID]
	if !ok || stored.Version != req.Version {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version++
	stored2 := *req
	stored2.StateLogs = nil
	m.requests[req.RequestID] = &stored2
	return nil
}

func (m *mockRescheduleRepo) AppendStateLog(_ context.Context, log *model.RequestStateLog) error {
	if log.LogID == "" {
		log.LogID = fmt.Sprintf("log-%d", len(m.logs)+1)
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	m.logs = append(m.logs, *log)
	return nil
}

// logsFor 按申请取状态日志（测试断言用）
func (m *mockRescheduleRepo) logsFor(id string) []model.RequestStateLog {
	var result []model.RequestStateLog
	for _, log := range m.logs {
		if log.RequestID == id {
			result = append(result, log)
		}
	}
	return result
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if notification.NotificationID == "" {
		notification.NotificationID = fmt.Sprintf("ntf-%d", len(m.notifications)+1)
	}
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *mockNotificationRepo) BatchCreate(ctx context.Context, notifications []model.Notification) error {
	for i := range notifications {
		if err := m.Create(ctx, &notifications[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, n)
	}
	return result, int64(len(result)), nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for i := range m.notifications {
		if m.notifications[i].NotificationID == id && m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for i := range m.notifications {
		if m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

// ── 聚合装配 ──

type mockRepos struct {
	user         *mockUserRepo
	branch       *mockBranchRepo
	shift        *mockShiftRepo
	classSession *mockClassSessionRepo
	reschedule   *mockRescheduleRepo
	notification *mockNotificationRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	mocks := &mockRepos{
		user:         newMockUserRepo(),
		branch:       newMockBranchRepo(),
		shift:        newMockShiftRepo(),
		classSession: newMockClassSessionRepo(),
		reschedule:   newMockRescheduleRepo(),
		notification: newMockNotificationRepo(),
	}
	repo := &repository.Repository{
		User:         mocks.user,
		Branch:       mocks.branch,
		Shift:        mocks.shift,
		ClassSession: mocks.classSession,
		Reschedule:   mocks.reschedule,
		Notification: mocks.notification,
	}
	return repo, mocks
}
