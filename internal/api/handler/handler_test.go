package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"sgms/backend/internal/dto"
	"sgms/backend/internal/reschedule"
	"sgms/backend/internal/service"
	pkgerrors "sgms/backend/pkg/errors"
	"sgms/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	currentResult *dto.UserResponse
	currentErr    error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.currentResult, m.currentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock RescheduleService ──

type mockRescheduleService struct {
	result    *dto.RescheduleResponse
	listTotal int64
	sweepN    int
	err       error

	lastCallerID   string
	lastCallerRole string
}

func (m *mockRescheduleService) Create(_ context.Context, _ *dto.CreateRescheduleRequest, callerID, callerRole, _ string) (*dto.RescheduleResponse, error) {
	m.lastCallerID, m.lastCallerRole = callerID, callerRole
	return m.result, m.err
}
func (m *mockRescheduleService) GetByID(_ context.Context, _ string) (*dto.RescheduleResponse, error) {
	return m.result, m.err
}
func (m *mockRescheduleService) List(_ context.Context, _ *dto.RescheduleListRequest) ([]dto.RescheduleResponse, int64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []dto.RescheduleResponse{*m.result}, m.listTotal, nil
}
func (m *mockRescheduleService) ListOpenBroadcast(_ context.Context, _ string) ([]dto.RescheduleResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []dto.RescheduleResponse{*m.result}, nil
}
func (m *mockRescheduleService) ListMy(_ context.Context, _ string, _ *dto.PaginationRequest) ([]dto.RescheduleResponse, int64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []dto.RescheduleResponse{*m.result}, m.listTotal, nil
}
func (m *mockRescheduleService) Accept(_ context.Context, _, callerID, callerRole string) (*dto.RescheduleResponse, error) {
	m.lastCallerID, m.lastCallerRole = callerID, callerRole
	return m.result, m.err
}
func (m *mockRescheduleService) Approve(_ context.Context, _, callerID, callerRole string) (*dto.RescheduleResponse, error) {
	m.lastCallerID, m.lastCallerRole = callerID, callerRole
	return m.result, m.err
}
func (m *mockRescheduleService) Reject(_ context.Context, _ string, _ *dto.RejectRescheduleRequest, callerID, callerRole string) (*dto.RescheduleResponse, error) {
	m.lastCallerID, m.lastCallerRole = callerID, callerRole
	return m.result, m.err
}
func (m *mockRescheduleService) Cancel(_ context.Context, _, callerID, callerRole string) (*dto.RescheduleResponse, error) {
	m.lastCallerID, m.lastCallerRole = callerID, callerRole
	return m.result, m.err
}
func (m *mockRescheduleService) Update(_ context.Context, _ string, _ *dto.UpdateRescheduleRequest, callerID, callerRole string) (*dto.RescheduleResponse, error) {
	m.lastCallerID, m.lastCallerRole = callerID, callerRole
	return m.result, m.err
}
func (m *mockRescheduleService) SweepExpired(_ context.Context, _ time.Time) (int, error) {
	return m.sweepN, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportRoster(_ context.Context, _ string, _, _ time.Time) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportMyCalendar(_ context.Context, _ string, _, _ time.Time) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// authAs 模拟 JWTAuth 中间件写入的上下文
func authAs(userID, role, branchID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Set("branch_id", branchID)
		c.Set("token_jti", "test-jti")
		c.Set("token_expires_at", time.Now().Add(15*time.Minute))
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v, body=%s", err, w.Body.String())
	}
	return resp
}

func sampleReschedule() *dto.RescheduleResponse {
	return &dto.RescheduleResponse{
		ID:       "req-1",
		SwapType: "find_replacement",
		Priority: "medium",
		Reason:   "家里有事",
		Status:   "pending_broadcast",
		BranchID: "branch-1",
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "staff@sgms.test",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("期望业务码 0, 实际 %d", resp.Code)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "staff@sgms.test",
		Password: "WrongPass1",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401, 实际 %d", w.Code)
	}
	if resp := parseResponse(t, w); resp.Code != 11001 {
		t.Errorf("期望业务码 11001, 实际 %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte(`{"email":"not-an-email"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400, 实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RescheduleHandler
// ═══════════════════════════════════════════════════════════

func setupRescheduleRouter(mock *mockRescheduleService, userID, role string) *gin.Engine {
	h := NewRescheduleHandler(mock)
	r := gin.New()
	g := r.Group("", authAs(userID, role, "branch-1"))
	g.POST("/reschedule-requests", h.CreateRequest)
	g.GET("/reschedule-requests/open", h.ListOpenRequests)
	g.GET("/reschedule-requests/:id", h.GetRequest)
	g.POST("/reschedule-requests/:id/accept", h.AcceptRequest)
	g.POST("/reschedule-requests/:id/approve", h.ApproveRequest)
	g.POST("/reschedule-requests/:id/reject", h.RejectRequest)
	g.POST("/reschedule-requests/:id/cancel", h.CancelRequest)
	g.POST("/reschedule-requests/sweep-expired", h.SweepExpired)
	return r
}

func TestRescheduleHandler_Create_Success(t *testing.T) {
	mock := &mockRescheduleService{result: sampleReschedule()}
	r := setupRescheduleRouter(mock, "staff-1", "staff")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reschedule-requests", jsonBody(dto.CreateRescheduleRequest{
		OriginalShiftID: "2f1f7a58-1111-4222-8333-444455556666",
		SwapType:        "find_replacement",
		Reason:          "家里有事",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201, 实际 %d: %s", w.Code, w.Body.String())
	}
	if mock.lastCallerID != "staff-1" || mock.lastCallerRole != "staff" {
		t.Errorf("调用方上下文透传错误: %s/%s", mock.lastCallerID, mock.lastCallerRole)
	}
}

func TestRescheduleHandler_Create_InvalidSwapType(t *testing.T) {
	mock := &mockRescheduleService{result: sampleReschedule()}
	r := setupRescheduleRouter(mock, "staff-1", "staff")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reschedule-requests", bytes.NewReader([]byte(
		`{"original_shift_id":"2f1f7a58-1111-4222-8333-444455556666","swap_type":"teleport","reason":"家里有事"}`,
	)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400, 实际 %d", w.Code)
	}
}

func TestRescheduleHandler_Accept_InvalidTransition(t *testing.T) {
	mock := &mockRescheduleService{err: reschedule.ErrInvalidTransition}
	r := setupRescheduleRouter(mock, "staff-2", "staff")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reschedule-requests/req-1/accept", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("状态机冲突应映射为 409, 实际 %d", w.Code)
	}
	if resp := parseResponse(t, w); resp.Code != 16007 {
		t.Errorf("期望业务码 16007, 实际 %d", resp.Code)
	}
}

func TestRescheduleHandler_Accept_ScheduleConflict(t *testing.T) {
	mock := &mockRescheduleService{err: reschedule.ErrScheduleConflict}
	r := setupRescheduleRouter(mock, "staff-2", "staff")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reschedule-requests/req-1/accept", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("排班冲突应映射为 409, 实际 %d", w.Code)
	}
}

func TestRescheduleHandler_Accept_OptimisticLock(t *testing.T) {
	mock := &mockRescheduleService{err: pkgerrors.ErrOptimisticLock}
	r := setupRescheduleRouter(mock, "staff-2", "staff")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reschedule-requests/req-1/accept", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("并发修改应映射为 409, 实际 %d", w.Code)
	}
	if resp := parseResponse(t, w); resp.Code != 10006 {
		t.Errorf("期望业务码 10006, 实际 %d", resp.Code)
	}
}

func TestRescheduleHandler_Approve_PermissionDenied(t *testing.T) {
	mock := &mockRescheduleService{err: reschedule.ErrPermissionDenied}
	r := setupRescheduleRouter(mock, "staff-1", "staff")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reschedule-requests/req-1/approve", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("越权操作应映射为 403, 实际 %d", w.Code)
	}
}

func TestRescheduleHandler_Approve_ReassignFailed(t *testing.T) {
	mock := &mockRescheduleService{err: service.ErrShiftReassignFailed}
	r := setupRescheduleRouter(mock, "mgr-1", "manager")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reschedule-requests/req-1/approve", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("改派失败应映射为 502, 实际 %d", w.Code)
	}
	if resp := parseResponse(t, w); resp.Code != 16010 {
		t.Errorf("期望业务码 16010, 实际 %d", resp.Code)
	}
}

func TestRescheduleHandler_Reject_RequiresReason(t *testing.T) {
	mock := &mockRescheduleService{result: sampleReschedule()}
	r := setupRescheduleRouter(mock, "mgr-1", "manager")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reschedule-requests/req-1/reject", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺少驳回原因应映射为 400, 实际 %d", w.Code)
	}
}

func TestRescheduleHandler_Get_NotFound(t *testing.T) {
	mock := &mockRescheduleService{err: service.ErrRequestNotFound}
	r := setupRescheduleRouter(mock, "staff-1", "staff")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reschedule-requests/no-such-id", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404, 实际 %d", w.Code)
	}
}

func TestRescheduleHandler_SweepExpired(t *testing.T) {
	mock := &mockRescheduleService{sweepN: 3}
	r := setupRescheduleRouter(mock, "owner-1", "owner")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reschedule-requests/sweep-expired", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	resp := parseResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	var sweep dto.SweepExpiredResponse
	json.Unmarshal(data, &sweep)
	if sweep.Expired != 3 {
		t.Errorf("期望关闭 3 条, 实际 %d", sweep.Expired)
	}
}

func TestRescheduleHandler_Unauthenticated(t *testing.T) {
	h := NewRescheduleHandler(&mockRescheduleService{result: sampleReschedule()})
	r := gin.New()
	// 未挂认证中间件，上下文里没有 user_id
	r.GET("/reschedule-requests/open", h.ListOpenRequests)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reschedule-requests/open", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401, 实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Roster_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("xlsx-bytes"),
		filename: "排班表_test.xlsx",
	}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/export/roster", authAs("mgr-1", "manager", "branch-1"), h.ExportRoster)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/roster", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("缺少 Content-Disposition 头")
	}
}

func TestExportHandler_MyCalendar_ICSContentType(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
		filename: "我的班表_test.ics",
	}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/export/my-calendar", authAs("staff-1", "staff", "branch-1"), h.ExportMyCalendar)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/my-calendar", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeICS {
		t.Errorf("Content-Type 错误: %s", ct)
	}
}

func TestExportHandler_Roster_BadFromParam(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	r := gin.New()
	r.GET("/export/roster", authAs("mgr-1", "manager", "branch-1"), h.ExportRoster)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/roster?from=2026-13-99", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400, 实际 %d", w.Code)
	}
}

func TestExportHandler_Roster_NoShifts(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoShifts})

	r := gin.New()
	r.GET("/export/roster", authAs("mgr-1", "manager", "branch-1"), h.ExportRoster)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/roster", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404, 实际 %d", w.Code)
	}
}
