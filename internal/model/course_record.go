package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CourseRecord 上课记录，对应 course_records
// 同一班级的节次（day_num）唯一
type CourseRecord struct {
	RecordID        string    `gorm:"type:uuid;primaryKey"                                                json:"record_id"`
	ClassID         string    `gorm:"type:uuid;not null;uniqueIndex:uq_course_records_class_day,priority:1" json:"class_id"`
	DayNum          int       `gorm:"type:smallint;not null;uniqueIndex:uq_course_records_class_day,priority:2" json:"day_num"` // 第几节(天)
	TeacherID       string    `gorm:"type:uuid;not null"                                                  json:"teacher_id"`
	HasHomework     bool      `gorm:"not null"                                                            json:"has_homework"`
	HomeworkTitle   *string   `gorm:"type:varchar(128)"                                                   json:"homework_title,omitempty"`
	HomeworkContent *string   `gorm:"type:text"                                                           json:"homework_content,omitempty"`
	Outline         string    `gorm:"type:text;not null"                                                  json:"outline"` // 本节课程大纲
	Date            time.Time `gorm:"type:date;not null"                                                  json:"date"`
	BaseModel

	Class   *ClassList   `gorm:"foreignKey:ClassID;references:ClassID;constraint:OnDelete:CASCADE"     json:"class,omitempty"`
	Teacher *UserProfile `gorm:"foreignKey:TeacherID;references:ProfileID;constraint:OnDelete:CASCADE" json:"teacher,omitempty"`
}

// TableName 指定表名
func (CourseRecord) TableName() string { return "course_records" }

func (r CourseRecord) String() string {
	class := r.ClassID
	if r.Class != nil {
		class = r.Class.String()
	}
	return fmt.Sprintf("%s %d", class, r.DayNum)
}

// BeforeCreate 生成主键并填充上课日期
func (r *CourseRecord) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.RecordID)
	if r.Date.IsZero() {
		r.Date = today()
	}
	return nil
}
