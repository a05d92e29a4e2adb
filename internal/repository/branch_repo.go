package repository

import (
	"context"

	"gorm.io/gorm"

	"sgms/backend/internal/model"
	pkgerrors "sgms/backend/pkg/errors"
)

// BranchRepository 门店数据访问接口
type BranchRepository interface {
	Create(ctx context.Context, branch *model.Branch) error
	GetByID(ctx context.Context, id string) (*model.Branch, error)
	List(ctx context.Context) ([]model.Branch, error)
	Update(ctx context.Context, branch *model.Branch) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type branchRepo struct {
	db *gorm.DB
}

// NewBranchRepo 创建 BranchRepository 实例
func NewBranchRepo(db *gorm.DB) BranchRepository {
	return &branchRepo{db: db}
}

func (r *branchRepo) Create(ctx context.Context, branch *model.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

func (r *branchRepo) GetByID(ctx context.Context, id string) (*model.Branch, error) {
	var branch model.Branch
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", id).
		First(&branch).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepo) List(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&branches).Error
	return branches, err
}

func (r *branchRepo) Update(ctx context.Context, branch *model.Branch) error {
	oldVersion := branch.Version
	result := r.db.WithContext(ctx).
		Model(branch).
		Where("branch_id = ? AND version = ?", branch.BranchID, oldVersion).
		Updates(map[string]interface{}{
			"name":       branch.Name,
			"address":    branch.Address,
			"phone":      branch.Phone,
			"is_active":  branch.IsActive,
			"updated_by": branch.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	branch.Version = oldVersion + 1
	return nil
}

func (r *branchRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Branch{}).
		Where("branch_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
