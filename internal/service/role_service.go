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

// ── 角色 / 菜单模块业务错误 ──

var (
	ErrRoleNotFound   = errors.New("角色不存在")
	ErrRoleNameExists = errors.New("角色名称已存在")
	ErrMenuNotFound   = errors.New("菜单不存在")
)

// RoleService 角色业务接口
type RoleService interface {
	Create(ctx context.Context, req *dto.CreateRoleRequest, callerID string) (*dto.RoleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RoleResponse, error)
	List(ctx context.Context) ([]dto.RoleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoleRequest, callerID string) (*dto.RoleResponse, error)
	// SetMenus 整体替换角色菜单，未知菜单 ID 返回 ErrMenuNotFound
	SetMenus(ctx context.Context, id string, req *dto.SetMenusRequest) (*dto.RoleResponse, error)
	Delete(ctx context.Context, id string) error
}

type roleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoleService 创建 RoleService 实例
func NewRoleService(repo *repository.Repository, logger *zap.Logger) RoleService {
	return &roleService{repo: repo, logger: logger}
}

func (s *roleService) Create(ctx context.Context, req *dto.CreateRoleRequest, callerID string) (*dto.RoleResponse, error) {
	exists, err := s.repo.Role.ExistsByName(ctx, req.Name, "")
	if err != nil {
		s.logger.Error("检查角色名称失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrRoleNameExists
	}

	role := &model.Role{Name: req.Name}
	role.Stamp(callerID)
	if err := s.repo.Role.Create(ctx, role); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrRoleNameExists
		}
		s.logger.Error("创建角色失败", zap.Error(err))
		return nil, err
	}
	return toRoleResponse(role), nil
}

func (s *roleService) GetByID(ctx context.Context, id string) (*dto.RoleResponse, error) {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRoleResponse(role), nil
}

func (s *roleService) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.repo.Role.List(ctx)
	if err != nil {
		s.logger.Error("列出角色失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		result = append(result, *toRoleResponse(&roles[i]))
	}
	return result, nil
}

func (s *roleService) Update(ctx context.Context, id string, req *dto.UpdateRoleRequest, callerID string) (*dto.RoleResponse, error) {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Role.ExistsByName(ctx, req.Name, id)
	if err != nil {
		s.logger.Error("检查角色名称失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrRoleNameExists
	}

	role.Name = req.Name
	role.Stamp(callerID)
	if err := s.repo.Role.Update(ctx, role); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrRoleNameExists
		}
		s.logger.Error("更新角色失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toRoleResponse(role), nil
}

func (s *roleService) SetMenus(ctx context.Context, id string, req *dto.SetMenusRequest) (*dto.RoleResponse, error) {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := uniqueIDs(req.MenuIDs)
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		menus, err := txRepo.Menu.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(menus) != len(ids) {
			return ErrMenuNotFound
		}
		return txRepo.Role.ReplaceMenus(ctx, role, menus)
	})
	if err != nil {
		if errors.Is(err, ErrMenuNotFound) {
			return nil, err
		}
		s.logger.Error("设置角色菜单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *roleService) Delete(ctx context.Context, id string) error {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Role.Delete(ctx, role); err != nil {
		s.logger.Error("删除角色失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *roleService) getRole(ctx context.Context, id string) (*model.Role, error) {
	role, err := s.repo.Role.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return role, nil
}

func toRoleResponse(r *model.Role) *dto.RoleResponse {
	return &dto.RoleResponse{
		ID:    r.RoleID,
		Name:  r.Name,
		Menus: toMenuResponses(r.Menus),
	}
}

func toMenuResponses(menus []model.Menu) []dto.MenuResponse {
	result := make([]dto.MenuResponse, 0, len(menus))
	for _, m := range menus {
		result = append(result, dto.MenuResponse{ID: m.MenuID, Name: m.Name, URLName: m.URLName})
	}
	return result
}
