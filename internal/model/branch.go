package model

import "gorm.io/gorm"

// Branch 校区，对应 branches
type Branch struct {
	BranchID string `gorm:"type:uuid;primaryKey"                                    json:"branch_id"`
	Name     string `gorm:"type:varchar(128);not null;uniqueIndex:uq_branches_name" json:"name"`
	Address  string `gorm:"type:varchar(128);not null"                              json:"address"`
	BaseModel
}

// TableName 指定表名
func (Branch) TableName() string { return "branches" }

func (b Branch) String() string { return b.Name }

// BeforeCreate 生成主键
func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.BranchID)
	return nil
}
