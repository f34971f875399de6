package repository

import (
	"context"

	"gorm.io/gorm"

	"prefect-crm/internal/model"
)

// TagRepository 客户标签数据访问接口
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	GetByID(ctx context.Context, id string) (*model.Tag, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	Delete(ctx context.Context, id string) error
}

type tagRepo struct {
	db *gorm.DB
}

// NewTagRepo 创建 TagRepository 实例
func NewTagRepo(db *gorm.DB) TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepo) GetByID(ctx context.Context, id string) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).
		Where("tag_id = ?", id).
		First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (r *tagRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Tag, error) {
	var tags []model.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).
		Where("tag_id IN ?", ids).
		Order("name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepo) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *tagRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM customer_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Tag{}, "tag_id = ?", id).Error
	})
}
