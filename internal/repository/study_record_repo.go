package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prefect-crm/internal/model"
)

// StudyRecordRepository 学习记录数据访问接口
type StudyRecordRepository interface {
	Create(ctx context.Context, record *model.StudyRecord) error
	// BatchCreate 批量插入，(报名, 上课记录) 已存在的行跳过；返回实际插入行数
	BatchCreate(ctx context.Context, records []model.StudyRecord) (int64, error)
	GetByID(ctx context.Context, id string) (*model.StudyRecord, error)
	Exists(ctx context.Context, enrollmentID, courseRecordID string) (bool, error)
	ListByCourseRecord(ctx context.Context, courseRecordID string) ([]model.StudyRecord, error)
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]model.StudyRecord, error)
	// ListByClass 班级全部学习记录（成绩表导出使用）
	ListByClass(ctx context.Context, classID string) ([]model.StudyRecord, error)
	Update(ctx context.Context, record *model.StudyRecord) error
	Delete(ctx context.Context, id string) error
}

type studyRecordRepo struct {
	db *gorm.DB
}

// NewStudyRecordRepo 创建 StudyRecordRepository 实例
func NewStudyRecordRepo(db *gorm.DB) StudyRecordRepository {
	return &studyRecordRepo{db: db}
}

func (r *studyRecordRepo) Create(ctx context.Context, record *model.StudyRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

func (r *studyRecordRepo) BatchCreate(ctx context.Context, records []model.StudyRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "course_record_id"}},
			DoNothing: true,
		}).
		Create(&records)
	return result.RowsAffected, result.Error
}

func (r *studyRecordRepo) GetByID(ctx context.Context, id string) (*model.StudyRecord, error) {
	var record model.StudyRecord
	err := r.db.WithContext(ctx).
		Preload("CourseRecord").
		Where("study_record_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *studyRecordRepo) Exists(ctx context.Context, enrollmentID, courseRecordID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StudyRecord{}).
		Where("enrollment_id = ? AND course_record_id = ?", enrollmentID, courseRecordID).
		Count(&count).Error
	return count > 0, err
}

func (r *studyRecordRepo) ListByCourseRecord(ctx context.Context, courseRecordID string) ([]model.StudyRecord, error) {
	var records []model.StudyRecord
	err := r.db.WithContext(ctx).
		Preload("CourseRecord").
		Where("course_record_id = ?", courseRecordID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *studyRecordRepo) ListByEnrollment(ctx context.Context, enrollmentID string) ([]model.StudyRecord, error) {
	var records []model.StudyRecord
	err := r.db.WithContext(ctx).
		Joins("CourseRecord").
		Where("study_records.enrollment_id = ?", enrollmentID).
		Order(`"CourseRecord"."day_num" ASC`).
		Find(&records).Error
	return records, err
}

func (r *studyRecordRepo) ListByClass(ctx context.Context, classID string) ([]model.StudyRecord, error) {
	var records []model.StudyRecord
	err := r.db.WithContext(ctx).
		Joins("CourseRecord").
		Where(`"CourseRecord"."class_id" = ?`, classID).
		Order(`"CourseRecord"."day_num" ASC`).
		Find(&records).Error
	return records, err
}

func (r *studyRecordRepo) Update(ctx context.Context, record *model.StudyRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

func (r *studyRecordRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.StudyRecord{}, "study_record_id = ?", id).Error
}
