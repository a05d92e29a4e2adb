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
)

// ── 团课模块业务错误 ──

var (
	ErrClassNotFound    = errors.New("团课排期不存在")
	ErrClassTimeInvalid = errors.New("团课时间无效")
)

const defaultClassCapacity = 20

// ClassSessionService 团课排期业务接口
type ClassSessionService interface {
	Create(ctx context.Context, req *dto.CreateClassSessionRequest, callerID string) (*dto.ClassSessionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClassSessionResponse, error)
	List(ctx context.Context, req *dto.ClassSessionListRequest) ([]dto.ClassSessionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateClassSessionRequest, callerID string) (*dto.ClassSessionResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type classSessionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClassSessionService 创建 ClassSessionService 实例
func NewClassSessionService(repo *repository.Repository, logger *zap.Logger) ClassSessionService {
	return &classSessionService{repo: repo, logger: logger}
}

func (s *classSessionService) Create(ctx context.Context, req *dto.CreateClassSessionRequest, callerID string) (*dto.ClassSessionResponse, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrClassTimeInvalid
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, ErrClassTimeInvalid
	}
	if !end.After(start) {
		return nil, ErrClassTimeInvalid
	}

	trainer, err := s.repo.User.GetByID(ctx, req.TrainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = defaultClassCapacity
	}

	session := &model.ClassSession{
		BranchID:  req.BranchID,
		TrainerID: req.TrainerID,
		Title:     req.Title,
		StartTime: start,
		EndTime:   end,
		Capacity:  capacity,
		Status:    "scheduled",
	}
	session.CreatedBy = &callerID

	if err := s.repo.ClassSession.Create(ctx, session); err != nil {
		s.logger.Error("创建团课排期失败", zap.Error(err))
		return nil, err
	}

	session.Trainer = trainer
	resp := toClassSessionResponse(session)
	return &resp, nil
}

func (s *classSessionService) GetByID(ctx context.Context, id string) (*dto.ClassSessionResponse, error) {
	session, err := s.repo.ClassSession.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	resp := toClassSessionResponse(session)
	return &resp, nil
}

func (s *classSessionService) List(ctx context.Context, req *dto.ClassSessionListRequest) ([]dto.ClassSessionResponse, error) {
	from, err := time.Parse(time.RFC3339, req.From)
	if err != nil {
		return nil, ErrClassTimeInvalid
	}
	to, err := time.Parse(time.RFC3339, req.To)
	if err != nil {
		return nil, ErrClassTimeInvalid
	}

	sessions, err := s.repo.ClassSession.ListByBranch(ctx, req.BranchID, from, to)
	if err != nil {
		return nil, err
	}

	resps := make([]dto.ClassSessionResponse, 0, len(sessions))
	for i := range sessions {
		resps = append(resps, toClassSessionResponse(&sessions[i]))
	}
	return resps, nil
}

func (s *classSessionService) Update(ctx context.Context, id string, req *dto.UpdateClassSessionRequest, callerID string) (*dto.ClassSessionResponse, error) {
	session, err := s.repo.ClassSession.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	if req.TrainerID != nil {
		session.TrainerID = *req.TrainerID
		session.Trainer = nil
	}
	if req.Title != nil {
		session.Title = *req.Title
	}
	if req.StartTime != nil {
		start, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, ErrClassTimeInvalid
		}
		session.StartTime = start
	}
	if req.EndTime != nil {
		end, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return nil, ErrClassTimeInvalid
		}
		session.EndTime = end
	}
	if !session.EndTime.After(session.StartTime) {
		return nil, ErrClassTimeInvalid
	}
	if req.Capacity != nil {
		session.Capacity = *req.Capacity
	}
	if req.Status != nil {
		session.Status = *req.Status
	}
	session.UpdatedBy = &callerID

	if err := s.repo.ClassSession.Update(ctx, session); err != nil {
		return nil, err
	}

	resp := toClassSessionResponse(session)
	return &resp, nil
}

func (s *classSessionService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.ClassSession.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}
	return s.repo.ClassSession.Delete(ctx, id, callerID)
}

func toClassSessionResponse(session *model.ClassSession) dto.ClassSessionResponse {
	return dto.ClassSessionResponse{
		ID:        session.ClassSessionID,
		BranchID:  session.BranchID,
		Trainer:   toStaffBrief(session.Trainer),
		Title:     session.Title,
		StartTime: session.StartTime.Format(time.RFC3339),
		EndTime:   session.EndTime.Format(time.RFC3339),
		Capacity:  session.Capacity,
		Status:    session.Status,
	}
}
