package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	pkgerrors "prefect-crm/pkg/errors"
)

// ── 校区模块业务错误 ──

var (
	ErrBranchNotFound   = errors.New("校区不存在")
	ErrBranchNameExists = errors.New("校区名称已存在")
)

// BranchService 校区业务接口
type BranchService interface {
	Create(ctx context.Context, req *dto.CreateBranchRequest, callerID string) (*dto.BranchResponse, error)
	GetByID(ctx context.Context, id string) (*dto.BranchResponse, error)
	List(ctx context.Context) ([]dto.BranchResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateBranchRequest, callerID string) (*dto.BranchResponse, error)
	Delete(ctx context.Context, id string) error
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
	exists, err := s.repo.Branch.ExistsByName(ctx, req.Name, "")
	if err != nil {
		s.logger.Error("检查校区名称失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrBranchNameExists
	}

	branch := &model.Branch{Name: req.Name, Address: req.Address}
	branch.Stamp(callerID)
	if err := s.repo.Branch.Create(ctx, branch); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrBranchNameExists
		}
		s.logger.Error("创建校区失败", zap.Error(err))
		return nil, err
	}
	return toBranchResponse(branch), nil
}

func (s *branchService) GetByID(ctx context.Context, id string) (*dto.BranchResponse, error) {
	branch, err := s.getBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

func (s *branchService) List(ctx context.Context) ([]dto.BranchResponse, error) {
	branches, err := s.repo.Branch.List(ctx)
	if err != nil {
		s.logger.Error("列出校区失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		result = append(result, *toBranchResponse(&branches[i]))
	}
	return result, nil
}

func (s *branchService) Update(ctx context.Context, id string, req *dto.UpdateBranchRequest, callerID string) (*dto.BranchResponse, error) {
	branch, err := s.getBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != branch.Name {
		exists, err := s.repo.Branch.ExistsByName(ctx, *req.Name, id)
		if err != nil {
			s.logger.Error("检查校区名称失败", zap.Error(err))
			return nil, err
		}
		if exists {
			return nil, ErrBranchNameExists
		}
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	branch.Stamp(callerID)

	if err := s.repo.Branch.Update(ctx, branch); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrBranchNameExists
		}
		s.logger.Error("更新校区失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// Delete 级联删除校区下的班级
func (s *branchService) Delete(ctx context.Context, id string) error {
	if _, err := s.getBranch(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Branch.Delete(ctx, id); err != nil {
		s.logger.Error("删除校区失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *branchService) getBranch(ctx context.Context, id string) (*model.Branch, error) {
	branch, err := s.repo.Branch.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		s.logger.Error("查询校区失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return branch, nil
}

func toBranchResponse(b *model.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:        b.BranchID,
		Name:      b.Name,
		Address:   b.Address,
		CreatedAt: formatTime(b.CreatedAt),
	}
}
