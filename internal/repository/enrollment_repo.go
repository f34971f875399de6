package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prefect-crm/internal/model"
)

// EnrollmentRepository 报名数据访问接口
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	Exists(ctx context.Context, customerID, classID string) (bool, error)
	List(ctx context.Context, classID, customerID string) ([]model.Enrollment, error)
	ListByClass(ctx context.Context, classID string) ([]model.Enrollment, error)
	Update(ctx context.Context, enrollment *model.Enrollment) error
	Delete(ctx context.Context, id string) error
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(enrollment).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Class.Branch").
		Preload("Class.Course").
		Preload("Consultant").
		Where("enrollment_id = ?", id).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) Exists(ctx context.Context, customerID, classID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("customer_id = ? AND class_id = ?", customerID, classID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepo) List(ctx context.Context, classID, customerID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	db := r.db.WithContext(ctx)
	if classID != "" {
		db = db.Where("class_id = ?", classID)
	}
	if customerID != "" {
		db = db.Where("customer_id = ?", customerID)
	}
	err := db.Preload("Customer").
		Preload("Class.Branch").
		Preload("Class.Course").
		Preload("Consultant").
		Order("date DESC, created_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// ListByClass 只加载客户信息，按客户 QQ 排序（成绩表导出使用）
func (r *enrollmentRepo) ListByClass(ctx context.Context, classID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Joins("Customer").
		Where("enrollments.class_id = ?", classID).
		Order(`"Customer"."contact_id" ASC`).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) Update(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(enrollment).Error
}

func (r *enrollmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Enrollment{}, "enrollment_id = ?", id).Error
}
