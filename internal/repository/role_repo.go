package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prefect-crm/internal/model"
)

// RoleRepository 角色数据访问接口
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	GetByID(ctx context.Context, id string) (*model.Role, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
	Update(ctx context.Context, role *model.Role) error
	ReplaceMenus(ctx context.Context, role *model.Role, menus []model.Menu) error
	Delete(ctx context.Context, role *model.Role) error
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo 创建 RoleRepository 实例
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Omit("Menus.*").Create(role).Error
}

func (r *roleRepo) GetByID(ctx context.Context, id string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Preload("Menus", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("role_id = ?", id).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Role{}).Where("name = ?", name)
	if excludeID != "" {
		db = db.Where("role_id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *roleRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Role, error) {
	var roles []model.Role
	if len(ids) == 0 {
		return roles, nil
	}
	err := r.db.WithContext(ctx).
		Where("role_id IN ?", ids).
		Order("name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepo) List(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).
		Preload("Menus", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepo) Update(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(role).Error
}

func (r *roleRepo) ReplaceMenus(ctx context.Context, role *model.Role, menus []model.Menu) error {
	association := r.db.WithContext(ctx).Model(role).Association("Menus")
	if len(menus) == 0 {
		return association.Clear()
	}
	return association.Replace(menus)
}

func (r *roleRepo) Delete(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(role).Association("Menus").Clear(); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_profile_roles WHERE role_id = ?", role.RoleID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Role{}, "role_id = ?", role.RoleID).Error
	})
}
