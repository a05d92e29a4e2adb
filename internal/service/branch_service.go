package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sgms/backend/internal/dto"
	"sgms/backend/internal/model"
	"sgms/backend/internal/repository"
)

// BranchService 门店管理业务接口
type BranchService interface {
	Create(ctx context.Context, req *dto.CreateBranchRequest, callerID string) (*dto.BranchResponse, error)
	GetByID(ctx context.Context, id string) (*dto.BranchResponse, error)
	List(ctx context.Context) ([]dto.BranchResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateBranchRequest, callerID string) (*dto.BranchResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type branchService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBranchService 创建 BranchService 实例
func NewBranchService(repo *repository.Repository, logger *zap.Logger) BranchService {
	return &branchService{repo: repo, logger: logger}
}

func (s *branchService) Create(ctx context.Context, req *dto.CreateBranchRequest, callerID string) (*dto.BranchResponse, error) {
	branch := &model.Branch{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	}
	branch.CreatedBy = &callerID

	if err := s.repo.Branch.Create(ctx, branch); err != nil {
		s.logger.Error("创建门店失败", zap.Error(err))
		return nil, err
	}

	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) GetByID(ctx context.Context, id string) (*dto.BranchResponse, error) {
	branch, err := s.repo.Branch.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) List(ctx context.Context) ([]dto.BranchResponse, error) {
	branches, err := s.repo.Branch.List(ctx)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		resps = append(resps, toBranchResponse(&branches[i]))
	}
	return resps, nil
}

func (s *branchService) Update(ctx context.Context, id string, req *dto.UpdateBranchRequest, callerID string) (*dto.BranchResponse, error) {
	branch, err := s.repo.Branch.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}
	branch.UpdatedBy = &callerID

	if err := s.repo.Branch.Update(ctx, branch); err != nil {
		return nil, err
	}

	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Branch.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBranchNotFound
		}
		return err
	}
	return s.repo.Branch.Delete(ctx, id, callerID)
}

func toBranchResponse(branch *model.Branch) dto.BranchResponse {
	return dto.BranchResponse{
		ID:       branch.BranchID,
		Name:     branch.Name,
		Address:  branch.Address,
		Phone:    branch.Phone,
		IsActive: branch.IsActive,
	}
}
