package repository

import (
	"context"

	"gorm.io/gorm"

	"prefect-crm/internal/model"
)

// MenuRepository 菜单数据访问接口
type MenuRepository interface {
	Create(ctx context.Context, menu *model.Menu) error
	GetByID(ctx context.Context, id string) (*model.Menu, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Menu, error)
	List(ctx context.Context) ([]model.Menu, error)
	// ListByProfile 档案所有角色菜单的并集（去重，按名称排序）
	ListByProfile(ctx context.Context, profileID string) ([]model.Menu, error)
	Update(ctx context.Context, menu *model.Menu) error
	Delete(ctx context.Context, id string) error
}

type menuRepo struct {
	db *gorm.DB
}

// NewMenuRepo 创建 MenuRepository 实例
func NewMenuRepo(db *gorm.DB) MenuRepository {
	return &menuRepo{db: db}
}

func (r *menuRepo) Create(ctx context.Context, menu *model.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

func (r *menuRepo) GetByID(ctx context.Context, id string) (*model.Menu, error) {
	var menu model.Menu
	err := r.db.WithContext(ctx).
		Where("menu_id = ?", id).
		First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Menu, error) {
	var menus []model.Menu
	if len(ids) == 0 {
		return menus, nil
	}
	err := r.db.WithContext(ctx).
		Where("menu_id IN ?", ids).
		Order("name ASC").
		Find(&menus).Error
	return menus, err
}

func (r *menuRepo) List(ctx context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	err := r.db.WithContext(ctx).Order("name ASC").Find(&menus).Error
	return menus, err
}

func (r *menuRepo) ListByProfile(ctx context.Context, profileID string) ([]model.Menu, error) {
	var menus []model.Menu
	err := r.db.WithContext(ctx).
		Where("menu_id IN (?)",
			r.db.Table("role_menus").
				Select("role_menus.menu_id").
				Joins("JOIN user_profile_roles ON user_profile_roles.role_id = role_menus.role_id").
				Where("user_profile_roles.profile_id = ?", profileID)).
		Order("name ASC").
		Find(&menus).Error
	return menus, err
}

func (r *menuRepo) Update(ctx context.Context, menu *model.Menu) error {
	return r.db.WithContext(ctx).Save(menu).Error
}

func (r *menuRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_menus WHERE menu_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Menu{}, "menu_id = ?", id).Error
	})
}
