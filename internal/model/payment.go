package model

import (
	"fmt"

	"gorm.io/gorm"
)

// DefaultPaymentAmount 缴费默认金额
const DefaultPaymentAmount = 500

// Payment 缴费记录，对应 payments
type Payment struct {
	PaymentID    string `gorm:"type:uuid;primaryKey"      json:"payment_id"`
	CustomerID   string `gorm:"type:uuid;not null;index"  json:"customer_id"`
	CourseID     string `gorm:"type:uuid;not null"        json:"course_id"`
	Amount       int    `gorm:"not null;default:500"      json:"amount"`
	ConsultantID string `gorm:"type:uuid;not null"        json:"consultant_id"`
	BaseModel

	Customer   *Customer    `gorm:"foreignKey:CustomerID;references:CustomerID;constraint:OnDelete:CASCADE"  json:"customer,omitempty"`
	Course     *Course      `gorm:"foreignKey:CourseID;references:CourseID;constraint:OnDelete:CASCADE"      json:"course,omitempty"`
	Consultant *UserProfile `gorm:"foreignKey:ConsultantID;references:ProfileID;constraint:OnDelete:CASCADE" json:"consultant,omitempty"`
}

// TableName 指定表名
func (Payment) TableName() string { return "payments" }

func (p Payment) String() string {
	customer := p.CustomerID
	if p.Customer != nil {
		customer = p.Customer.String()
	}
	return fmt.Sprintf("%s %d", customer, p.Amount)
}

// BeforeCreate 生成主键，金额缺省时取默认值
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.PaymentID)
	if p.Amount == 0 {
		p.Amount = DefaultPaymentAmount
	}
	return nil
}
