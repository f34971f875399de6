package model

import "gorm.io/gorm"

// Tag 客户标签，对应 tags
type Tag struct {
	TagID string `gorm:"type:uuid;primaryKey"                               json:"tag_id"`
	Name  string `gorm:"type:varchar(32);not null;uniqueIndex:uq_tags_name" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Tag) TableName() string { return "tags" }

func (t Tag) String() string { return t.Name }

// BeforeCreate 生成主键
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.TagID)
	return nil
}
