package model

import (
	"time"

	"gorm.io/gorm"
)

// Account 登录账号表，对应 accounts
type Account struct {
	AccountID    string     `gorm:"type:uuid;primaryKey"                          json:"account_id"`
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_accounts_username" json:"username"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                    json:"-"`
	IsActive     bool       `gorm:"not null"                                      json:"is_active"`
	IsSuperuser  bool       `gorm:"not null;default:false"                        json:"is_superuser"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Account) TableName() string { return "accounts" }

// BeforeCreate 生成主键
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.AccountID)
	return nil
}
