package model

import "gorm.io/gorm"

// Customer 客户信息表，对应 customers
type Customer struct {
	CustomerID      string         `gorm:"type:uuid;primaryKey"                                          json:"customer_id"`
	Name            *string        `gorm:"type:varchar(32)"                                              json:"name,omitempty"`
	ContactID       string         `gorm:"type:varchar(64);not null;uniqueIndex:uq_customers_contact_id" json:"contact_id"` // QQ 号，全局唯一
	ContactName     *string        `gorm:"type:varchar(64)"                                              json:"contact_name,omitempty"`
	Phone           *string        `gorm:"type:varchar(64)"                                              json:"phone,omitempty"`
	Source          CustomerSource `gorm:"type:smallint;not null;index"                                  json:"source"`
	ReferralFrom    string         `gorm:"type:varchar(64);not null;default:''"                          json:"referral_from"` // 转介绍人QQ
	ConsultCourseID *string        `gorm:"type:uuid"                                                     json:"consult_course_id,omitempty"`
	Content         string         `gorm:"type:text;not null"                                            json:"content"` // 咨询详情
	ConsultantID    string         `gorm:"type:uuid;not null;index"                                      json:"consultant_id"`
	Memo            *string        `gorm:"type:text"                                                     json:"memo,omitempty"`
	VersionedModel

	// 关联
	ConsultCourse *Course      `gorm:"foreignKey:ConsultCourseID;references:CourseID;constraint:OnDelete:SET NULL" json:"consult_course,omitempty"`
	Consultant    *UserProfile `gorm:"foreignKey:ConsultantID;references:ProfileID;constraint:OnDelete:CASCADE"  json:"consultant,omitempty"`
	Tags          []Tag        `gorm:"many2many:customer_tags;joinForeignKey:CustomerID;joinReferences:TagID;constraint:OnDelete:CASCADE"    json:"tags,omitempty"`
}

// TableName 指定表名
func (Customer) TableName() string { return "customers" }

func (c Customer) String() string { return c.ContactID }

// BeforeCreate 生成主键
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.CustomerID)
	return nil
}

// BeforeSave 校验来源值域
func (c *Customer) BeforeSave(tx *gorm.DB) error {
	if !c.Source.Valid() {
		return ErrInvalidSource
	}
	return nil
}
