package model

import (
	"fmt"

	"gorm.io/gorm"
)

// CustomerFollowUp 客户跟进记录，对应 customer_follow_ups
type CustomerFollowUp struct {
	FollowUpID   string    `gorm:"type:uuid;primaryKey"      json:"follow_up_id"`
	CustomerID   string    `gorm:"type:uuid;not null;index"  json:"customer_id"`
	Content      string    `gorm:"type:text;not null"        json:"content"`
	ConsultantID string    `gorm:"type:uuid;not null"        json:"consultant_id"`
	Intention    Intention `gorm:"type:smallint;not null"    json:"intention"`
	BaseModel

	Customer   *Customer    `gorm:"foreignKey:CustomerID;references:CustomerID;constraint:OnDelete:CASCADE"  json:"customer,omitempty"`
	Consultant *UserProfile `gorm:"foreignKey:ConsultantID;references:ProfileID;constraint:OnDelete:CASCADE" json:"consultant,omitempty"`
}

// TableName 指定表名
func (CustomerFollowUp) TableName() string { return "customer_follow_ups" }

func (f CustomerFollowUp) String() string {
	contact := f.CustomerID
	if f.Customer != nil {
		contact = f.Customer.ContactID
	}
	return fmt.Sprintf("<%s : %s>", contact, f.Intention.Label())
}

// BeforeCreate 生成主键
func (f *CustomerFollowUp) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.FollowUpID)
	return nil
}

// BeforeSave 校验意向值域
func (f *CustomerFollowUp) BeforeSave(tx *gorm.DB) error {
	if !f.Intention.Valid() {
		return ErrInvalidIntention
	}
	return nil
}
