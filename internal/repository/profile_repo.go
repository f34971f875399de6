package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prefect-crm/internal/model"
)

// ProfileRepository 员工档案数据访问接口
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.UserProfile) error
	GetByID(ctx context.Context, id string) (*model.UserProfile, error)
	GetByAccountID(ctx context.Context, accountID string) (*model.UserProfile, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.UserProfile, error)
	List(ctx context.Context, keyword string, offset, limit int) ([]model.UserProfile, int64, error)
	Update(ctx context.Context, profile *model.UserProfile) error
	ReplaceRoles(ctx context.Context, profile *model.UserProfile, roles []model.Role) error
	// Delete 删除档案及其登录账号
	Delete(ctx context.Context, profile *model.UserProfile) error
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo 创建 ProfileRepository 实例
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Omit("Account").Create(profile).Error
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Roles", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("profile_id = ?", id).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) GetByAccountID(ctx context.Context, accountID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Roles", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("account_id = ?", accountID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) FindByIDs(ctx context.Context, ids []string) ([]model.UserProfile, error) {
	var profiles []model.UserProfile
	if len(ids) == 0 {
		return profiles, nil
	}
	err := r.db.WithContext(ctx).
		Where("profile_id IN ?", ids).
		Order("name ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *profileRepo) List(ctx context.Context, keyword string, offset, limit int) ([]model.UserProfile, int64, error) {
	var profiles []model.UserProfile
	var total int64

	db := r.db.WithContext(ctx).Model(&model.UserProfile{})
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("name LIKE ? OR account_id IN (?)", like,
			r.db.Model(&model.Account{}).Select("account_id").Where("username LIKE ?", like))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Account").
		Preload("Roles").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error
}

func (r *profileRepo) ReplaceRoles(ctx context.Context, profile *model.UserProfile, roles []model.Role) error {
	association := r.db.WithContext(ctx).Model(profile).Association("Roles")
	if len(roles) == 0 {
		return association.Clear()
	}
	return association.Replace(roles)
}

func (r *profileRepo) Delete(ctx context.Context, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(profile).Association("Roles").Clear(); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM class_list_teachers WHERE profile_id = ?", profile.ProfileID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.UserProfile{}, "profile_id = ?", profile.ProfileID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Account{}, "account_id = ?", profile.AccountID).Error
	})
}
