package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prefect-crm/internal/model"
)

// CourseRecordRepository 上课记录数据访问接口
type CourseRecordRepository interface {
	Create(ctx context.Context, record *model.CourseRecord) error
	GetByID(ctx context.Context, id string) (*model.CourseRecord, error)
	ExistsByClassDay(ctx context.Context, classID string, dayNum int, excludeID string) (bool, error)
	// ListByClass 按节次升序
	ListByClass(ctx context.Context, classID string) ([]model.CourseRecord, error)
	Update(ctx context.Context, record *model.CourseRecord) error
	Delete(ctx context.Context, id string) error
}

type courseRecordRepo struct {
	db *gorm.DB
}

// NewCourseRecordRepo 创建 CourseRecordRepository 实例
func NewCourseRecordRepo(db *gorm.DB) CourseRecordRepository {
	return &courseRecordRepo{db: db}
}

func (r *courseRecordRepo) Create(ctx context.Context, record *model.CourseRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

func (r *courseRecordRepo) GetByID(ctx context.Context, id string) (*model.CourseRecord, error) {
	var record model.CourseRecord
	err := r.db.WithContext(ctx).
		Preload("Class.Branch").
		Preload("Class.Course").
		Preload("Teacher").
		Where("record_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *courseRecordRepo) ExistsByClassDay(ctx context.Context, classID string, dayNum int, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.CourseRecord{}).
		Where("class_id = ? AND day_num = ?", classID, dayNum)
	if excludeID != "" {
		db = db.Where("record_id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *courseRecordRepo) ListByClass(ctx context.Context, classID string) ([]model.CourseRecord, error) {
	var records []model.CourseRecord
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("class_id = ?", classID).
		Order("day_num ASC").
		Find(&records).Error
	return records, err
}

func (r *courseRecordRepo) Update(ctx context.Context, record *model.CourseRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

func (r *courseRecordRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.CourseRecord{}, "record_id = ?", id).Error
}
