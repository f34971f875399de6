package model

import "gorm.io/gorm"

// Course 课程表，对应 courses
type Course struct {
	CourseID     string `gorm:"type:uuid;primaryKey"                                  json:"course_id"`
	Name         string `gorm:"type:varchar(64);not null;uniqueIndex:uq_courses_name" json:"name"`
	Price        int    `gorm:"type:smallint;not null"                                json:"price"`
	PeriodMonths int    `gorm:"type:smallint;not null"                                json:"period_months"` // 周期(月)
	Outline      string `gorm:"type:text;not null"                                    json:"outline"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

func (c Course) String() string { return c.Name }

// BeforeCreate 生成主键
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.CourseID)
	return nil
}
