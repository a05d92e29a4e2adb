package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sgms/backend/internal/dto"
	"sgms/backend/internal/model"
	"sgms/backend/internal/repository"
)

var (
	ErrEmailTaken     = errors.New("邮箱已被使用")
	ErrBranchNotFound = errors.New("门店不存在")
)

// UserService 员工管理业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, id string, callerID string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	// 邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}

	// 门店存在性
	if _, err := s.repo.Branch.GetByID(ctx, req.BranchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		BranchID:     req.BranchID,
		IsActive:     true,
	}
	user.CreatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.BranchID, req.Role, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	resps := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resps = append(resps, toUserResponse(&users[i]))
	}
	return resps, total, nil
}

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.BranchID != nil {
		if _, err := s.repo.Branch.GetByID(ctx, *req.BranchID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBranchNotFound
			}
			return nil, err
		}
		user.BranchID = *req.BranchID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Deactivate(ctx context.Context, id string, callerID string) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.IsActive = false
	user.UpdatedBy = &callerID
	return s.repo.User.Update(ctx, user)
}

// toUserResponse 组装员工响应
func toUserResponse(user *model.User) dto.UserResponse {
	var branch *dto.BranchResponse
	if user.Branch != nil {
		branch = &dto.BranchResponse{
			ID:       user.Branch.BranchID,
			Name:     user.Branch.Name,
			Address:  user.Branch.Address,
			Phone:    user.Branch.Phone,
			IsActive: user.Branch.IsActive,
		}
	}
	return dto.UserResponse{
		ID:       user.UserID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		Branch:   branch,
		IsActive: user.IsActive,
	}
}

// toStaffBrief 组装员工简要信息
func toStaffBrief(user *model.User) *dto.StaffBrief {
	if user == nil {
		return nil
	}
	return &dto.StaffBrief{
		ID:   user.UserID,
		Name: user.Name,
		Role: user.Role,
	}
}
