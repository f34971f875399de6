package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
)

// MenuService 菜单业务接口
type MenuService interface {
	Create(ctx context.Context, req *dto.CreateMenuRequest, callerID string) (*dto.MenuResponse, error)
	List(ctx context.Context) ([]dto.MenuResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateMenuRequest, callerID string) (*dto.MenuResponse, error)
	Delete(ctx context.Context, id string) error
}

type menuService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMenuService 创建 MenuService 实例
func NewMenuService(repo *repository.Repository, logger *zap.Logger) MenuService {
	return &menuService{repo: repo, logger: logger}
}

func (s *menuService) Create(ctx context.Context, req *dto.CreateMenuRequest, callerID string) (*dto.MenuResponse, error) {
	menu := &model.Menu{Name: req.Name, URLName: req.URLName}
	menu.Stamp(callerID)
	if err := s.repo.Menu.Create(ctx, menu); err != nil {
		s.logger.Error("创建菜单失败", zap.Error(err))
		return nil, err
	}
	return &dto.MenuResponse{ID: menu.MenuID, Name: menu.Name, URLName: menu.URLName}, nil
}

func (s *menuService) List(ctx context.Context) ([]dto.MenuResponse, error) {
	menus, err := s.repo.Menu.List(ctx)
	if err != nil {
		s.logger.Error("列出菜单失败", zap.Error(err))
		return nil, err
	}
	return toMenuResponses(menus), nil
}

func (s *menuService) Update(ctx context.Context, id string, req *dto.UpdateMenuRequest, callerID string) (*dto.MenuResponse, error) {
	menu, err := s.repo.Menu.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		s.logger.Error("查询菜单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.URLName != nil {
		menu.URLName = *req.URLName
	}
	menu.Stamp(callerID)

	if err := s.repo.Menu.Update(ctx, menu); err != nil {
		s.logger.Error("更新菜单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &dto.MenuResponse{ID: menu.MenuID, Name: menu.Name, URLName: menu.URLName}, nil
}

func (s *menuService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Menu.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuNotFound
		}
		s.logger.Error("查询菜单失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Menu.Delete(ctx, id); err != nil {
		s.logger.Error("删除菜单失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
