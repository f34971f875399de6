package model

import "gorm.io/gorm"

// UserProfile 员工档案（课程顾问、讲师等），对应 user_profiles
type UserProfile struct {
	ProfileID string `gorm:"type:uuid;primaryKey"                                    json:"profile_id"`
	AccountID string `gorm:"type:uuid;not null;uniqueIndex:uq_user_profiles_account" json:"account_id"`
	Name      string `gorm:"type:varchar(32);not null"                               json:"name"`
	BaseModel

	// 关联
	Account *Account `gorm:"foreignKey:AccountID;references:AccountID;constraint:OnDelete:CASCADE" json:"account,omitempty"`
	Roles   []Role   `gorm:"many2many:user_profile_roles;joinForeignKey:ProfileID;joinReferences:RoleID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
}

// TableName 指定表名
func (UserProfile) TableName() string { return "user_profiles" }

func (p UserProfile) String() string { return p.Name }

// RoleNames 角色名称列表
func (p *UserProfile) RoleNames() []string {
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		names = append(names, r.Name)
	}
	return names
}

// BeforeCreate 生成主键
func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ProfileID)
	return nil
}
