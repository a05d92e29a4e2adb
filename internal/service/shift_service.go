package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sgms/backend/internal/dto"
	"sgms/backend/internal/model"
	"sgms/backend/internal/repository"
	"sgms/backend/internal/reschedule"
)

// ── 班次模块业务错误 ──

var (
	ErrShiftNotFound    = errors.New("班次不存在")
	ErrShiftTimeInvalid = errors.New("班次时间无效")
	ErrShiftOverlap     = errors.New("该员工在此时间段已有排班")
	ErrStaffNotFound    = errors.New("员工不存在")
)

// ShiftService 班次管理业务接口
type ShiftService interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest, callerID string) (*dto.ShiftResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ShiftResponse, error)
	List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, int64, error)
	ListMy(ctx context.Context, staffID string, from, to time.Time) ([]dto.ShiftResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateShiftRequest, callerID string) (*dto.ShiftResponse, error)
	Cancel(ctx context.Context, id string, callerID string) error
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

func (s *shiftService) Create(ctx context.Context, req *dto.CreateShiftRequest, callerID string) (*dto.ShiftResponse, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrShiftTimeInvalid
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, ErrShiftTimeInvalid
	}
	if !end.After(start) {
		return nil, ErrShiftTimeInvalid
	}

	staff, err := s.repo.User.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	// 同员工已排班次不得重叠（与换班接班冲突判定同一口径）
	existing, err := s.repo.Shift.ListByStaff(ctx, staff.UserID, model.ShiftStatusScheduled)
	if err != nil {
		return nil, err
	}
	if reschedule.HasConflict(existing, start, end) {
		return nil, ErrShiftOverlap
	}

	shift := &model.Shift{
		StaffID:   req.StaffID,
		BranchID:  req.BranchID,
		StartTime: start,
		EndTime:   end,
		Status:    model.ShiftStatusScheduled,
		Notes:     req.Notes,
	}
	shift.CreatedBy = &callerID

	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		s.logger.Error("创建班次失败", zap.Error(err))
		return nil, err
	}

	shift.Staff = staff
	resp := toShiftResponse(shift)
	return &resp, nil
}

func (s *shiftService) GetByID(ctx context.Context, id string) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	resp := toShiftResponse(shift)
	return &resp, nil
}

func (s *shiftService) List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, int64, error) {
	from, err := time.Parse(time.RFC3339, req.From)
	if err != nil {
		return nil, 0, ErrShiftTimeInvalid
	}
	to, err := time.Parse(time.RFC3339, req.To)
	if err != nil {
		return nil, 0, ErrShiftTimeInvalid
	}

	shifts, total, err := s.repo.Shift.ListByBranch(ctx, req.BranchID, from, to, req.StaffID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	resps := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		resps = append(resps, toShiftResponse(&shifts[i]))
	}
	return resps, total, nil
}

func (s *shiftService) ListMy(ctx context.Context, staffID string, from, to time.Time) ([]dto.ShiftResponse, error) {
	shifts, err := s.repo.Shift.ListByStaffRange(ctx, staffID, from, to)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		resps = append(resps, toShiftResponse(&shifts[i]))
	}
	return resps, nil
}

func (s *shiftService) Update(ctx context.Context, id string, req *dto.UpdateShiftRequest, callerID string) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	if req.StaffID != nil {
		shift.StaffID = *req.StaffID
		shift.Staff = nil
	}
	if req.StartTime != nil {
		start, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, ErrShiftTimeInvalid
		}
		shift.StartTime = start
	}
	if req.EndTime != nil {
		end, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return nil, ErrShiftTimeInvalid
		}
		shift.EndTime = end
	}
	if !shift.EndTime.After(shift.StartTime) {
		return nil, ErrShiftTimeInvalid
	}
	if req.Status != nil {
		shift.Status = *req.Status
	}
	if req.Notes != nil {
		shift.Notes = *req.Notes
	}
	shift.UpdatedBy = &callerID

	if err := s.repo.Shift.Update(ctx, shift); err != nil {
		return nil, err
	}

	resp := toShiftResponse(shift)
	return &resp, nil
}

func (s *shiftService) Cancel(ctx context.Context, id string, callerID string) error {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}

	shift.Status = model.ShiftStatusCancelled
	shift.UpdatedBy = &callerID
	return s.repo.Shift.Update(ctx, shift)
}

func toShiftResponse(shift *model.Shift) dto.ShiftResponse {
	return dto.ShiftResponse{
		ID:        shift.ShiftID,
		Staff:     toStaffBrief(shift.Staff),
		BranchID:  shift.BranchID,
		StartTime: shift.StartTime.Format(time.RFC3339),
		EndTime:   shift.EndTime.Format(time.RFC3339),
		Status:    shift.Status,
		Notes:     shift.Notes,
		CreatedAt: shift.CreatedAt.Format(time.RFC3339),
		UpdatedAt: shift.UpdatedAt.Format(time.RFC3339),
	}
}
