package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prefect-crm/internal/model"
)

// ClassRepository 班级数据访问接口
type ClassRepository interface {
	Create(ctx context.Context, class *model.ClassList) error
	GetByID(ctx context.Context, id string) (*model.ClassList, error)
	// Exists 检查 (校区, 课程, 学期) 是否已被占用
	Exists(ctx context.Context, branchID, courseID string, semester int, excludeID string) (bool, error)
	List(ctx context.Context, branchID, courseID string) ([]model.ClassList, error)
	Update(ctx context.Context, class *model.ClassList) error
	ReplaceTeachers(ctx context.Context, class *model.ClassList, teachers []model.UserProfile) error
	Delete(ctx context.Context, id string) error
}

type classRepo struct {
	db *gorm.DB
}

// NewClassRepo 创建 ClassRepository 实例
func NewClassRepo(db *gorm.DB) ClassRepository {
	return &classRepo{db: db}
}

func (r *classRepo) Create(ctx context.Context, class *model.ClassList) error {
	return r.db.WithContext(ctx).
		Omit("Branch", "Course", "Teachers.*").
		Create(class).Error
}

func (r *classRepo) GetByID(ctx context.Context, id string) (*model.ClassList, error) {
	var class model.ClassList
	err := r.db.WithContext(ctx).
		Preload("Branch").
		Preload("Course").
		Preload("Teachers", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("class_id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepo) Exists(ctx context.Context, branchID, courseID string, semester int, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.ClassList{}).
		Where("branch_id = ? AND course_id = ? AND semester = ?", branchID, courseID, semester)
	if excludeID != "" {
		db = db.Where("class_id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *classRepo) List(ctx context.Context, branchID, courseID string) ([]model.ClassList, error) {
	var classes []model.ClassList
	db := r.db.WithContext(ctx)
	if branchID != "" {
		db = db.Where("branch_id = ?", branchID)
	}
	if courseID != "" {
		db = db.Where("course_id = ?", courseID)
	}
	err := db.Preload("Branch").
		Preload("Course").
		Preload("Teachers").
		Order("start_date DESC, semester DESC").
		Find(&classes).Error
	return classes, err
}

func (r *classRepo) Update(ctx context.Context, class *model.ClassList) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(class).Error
}

func (r *classRepo) ReplaceTeachers(ctx context.Context, class *model.ClassList, teachers []model.UserProfile) error {
	association := r.db.WithContext(ctx).Model(class).Association("Teachers")
	if len(teachers) == 0 {
		return association.Clear()
	}
	return association.Replace(teachers)
}

func (r *classRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM class_list_teachers WHERE class_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ClassList{}, "class_id = ?", id).Error
	})
}
