package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Enrollment 报名表，对应 enrollments
// 同一客户对同一班级只能报名一次
type Enrollment struct {
	EnrollmentID     string    `gorm:"type:uuid;primaryKey"                                                     json:"enrollment_id"`
	CustomerID       string    `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_customer_class,priority:1" json:"customer_id"`
	ClassID          string    `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_customer_class,priority:2" json:"class_id"`
	ConsultantID     string    `gorm:"type:uuid;not null"                                                       json:"consultant_id"`
	ContractAgreed   bool      `gorm:"not null;default:false"                                                   json:"contract_agreed"`   // 学员已同意合同条款
	ContractApproved bool      `gorm:"not null;default:false"                                                   json:"contract_approved"` // 合同已审核
	Date             time.Time `gorm:"type:date;not null"                                                       json:"date"`
	BaseModel

	Customer   *Customer    `gorm:"foreignKey:CustomerID;references:CustomerID;constraint:OnDelete:CASCADE"  json:"customer,omitempty"`
	Class      *ClassList   `gorm:"foreignKey:ClassID;references:ClassID;constraint:OnDelete:CASCADE"        json:"class,omitempty"`
	Consultant *UserProfile `gorm:"foreignKey:ConsultantID;references:ProfileID;constraint:OnDelete:CASCADE" json:"consultant,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

func (e Enrollment) String() string {
	customer, class := e.CustomerID, e.ClassID
	if e.Customer != nil {
		customer = e.Customer.String()
	}
	if e.Class != nil {
		class = e.Class.String()
	}
	return fmt.Sprintf("%s %s", customer, class)
}

// BeforeCreate 生成主键并填充报名日期
func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.EnrollmentID)
	if e.Date.IsZero() {
		e.Date = today()
	}
	return nil
}
