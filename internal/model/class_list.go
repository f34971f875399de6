package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ClassList 班级表，对应 class_lists
// 同一校区、同一课程的学期号唯一
type ClassList struct {
	ClassID   string     `gorm:"type:uuid;primaryKey"                                                             json:"class_id"`
	BranchID  string     `gorm:"type:uuid;not null;uniqueIndex:uq_class_lists_branch_course_semester,priority:1"  json:"branch_id"`
	CourseID  string     `gorm:"type:uuid;not null;uniqueIndex:uq_class_lists_branch_course_semester,priority:2"  json:"course_id"`
	ClassType ClassType  `gorm:"type:smallint;not null"                                                           json:"class_type"`
	Semester  int        `gorm:"type:smallint;not null;uniqueIndex:uq_class_lists_branch_course_semester,priority:3" json:"semester"`
	StartDate time.Time  `gorm:"type:date;not null"                                                               json:"start_date"`
	EndDate   *time.Time `gorm:"type:date"                                                                        json:"end_date,omitempty"`
	BaseModel

	// 关联
	Branch   *Branch       `gorm:"foreignKey:BranchID;references:BranchID;constraint:OnDelete:CASCADE"            json:"branch,omitempty"`
	Course   *Course       `gorm:"foreignKey:CourseID;references:CourseID;constraint:OnDelete:CASCADE"            json:"course,omitempty"`
	Teachers []UserProfile `gorm:"many2many:class_list_teachers;joinForeignKey:ClassID;joinReferences:ProfileID;constraint:OnDelete:CASCADE" json:"teachers,omitempty"`
}

// TableName 指定表名
func (ClassList) TableName() string { return "class_lists" }

// String 形如 "北京校区 Python自动化 3"
func (c ClassList) String() string {
	branch, course := c.BranchID, c.CourseID
	if c.Branch != nil {
		branch = c.Branch.Name
	}
	if c.Course != nil {
		course = c.Course.Name
	}
	return fmt.Sprintf("%s %s %d", branch, course, c.Semester)
}

// BeforeCreate 生成主键
func (c *ClassList) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ClassID)
	return nil
}

// BeforeSave 校验班级类型值域
func (c *ClassList) BeforeSave(tx *gorm.DB) error {
	if !c.ClassType.Valid() {
		return ErrInvalidClassType
	}
	return nil
}
