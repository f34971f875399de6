package model

import "gorm.io/gorm"

// Role 角色表，对应 roles
type Role struct {
	RoleID string `gorm:"type:uuid;primaryKey"                                json:"role_id"`
	Name   string `gorm:"type:varchar(32);not null;uniqueIndex:uq_roles_name" json:"name"`
	BaseModel

	Menus []Menu `gorm:"many2many:role_menus;joinForeignKey:RoleID;joinReferences:MenuID;constraint:OnDelete:CASCADE" json:"menus,omitempty"`
}

// TableName 指定表名
func (Role) TableName() string { return "roles" }

func (r Role) String() string { return r.Name }

// BeforeCreate 生成主键
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.RoleID)
	return nil
}

// 内置角色名，RoleAuth 中间件按名称鉴权
const (
	RoleAdmin   = "admin"
	RoleSales   = "sales"
	RoleTeacher = "teacher"
)
