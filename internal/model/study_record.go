package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// StudyRecord 学习记录，对应 study_records
// 同一报名记录在同一节课只有一条学习记录
type StudyRecord struct {
	StudyRecordID  string     `gorm:"type:uuid;primaryKey"                                                                    json:"study_record_id"`
	EnrollmentID   string     `gorm:"type:uuid;not null;uniqueIndex:uq_study_records_enrollment_course_record,priority:1"     json:"enrollment_id"`
	CourseRecordID string     `gorm:"type:uuid;not null;uniqueIndex:uq_study_records_enrollment_course_record,priority:2"     json:"course_record_id"`
	Attendance     Attendance `gorm:"type:smallint;not null;default:0"                                                        json:"attendance"`
	Score          Score      `gorm:"type:smallint;not null"                                                                  json:"score"`
	Memo           *string    `gorm:"type:text"                                                                               json:"memo,omitempty"`
	Date           time.Time  `gorm:"type:date;not null"                                                                      json:"date"`
	BaseModel

	Enrollment   *Enrollment   `gorm:"foreignKey:EnrollmentID;references:EnrollmentID;constraint:OnDelete:CASCADE" json:"enrollment,omitempty"`
	CourseRecord *CourseRecord `gorm:"foreignKey:CourseRecordID;references:RecordID;constraint:OnDelete:CASCADE"   json:"course_record,omitempty"`
}

// TableName 指定表名
func (StudyRecord) TableName() string { return "study_records" }

func (s StudyRecord) String() string {
	enrollment, record := s.EnrollmentID, s.CourseRecordID
	if s.Enrollment != nil {
		enrollment = s.Enrollment.String()
	}
	if s.CourseRecord != nil {
		record = s.CourseRecord.String()
	}
	return fmt.Sprintf("%s %s %d", enrollment, record, s.Score)
}

// BeforeCreate 生成主键并填充日期
func (s *StudyRecord) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.StudyRecordID)
	if s.Date.IsZero() {
		s.Date = today()
	}
	return nil
}

// BeforeSave 校验出勤与成绩值域
func (s *StudyRecord) BeforeSave(tx *gorm.DB) error {
	if !s.Attendance.Valid() {
		return ErrInvalidAttendance
	}
	if !s.Score.Valid() {
		return ErrInvalidScore
	}
	return nil
}
