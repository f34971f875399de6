package model

import "gorm.io/gorm"

// Menu 动态菜单，对应 menus
type Menu struct {
	MenuID  string `gorm:"type:uuid;primaryKey"       json:"menu_id"`
	Name    string `gorm:"type:varchar(32);not null"  json:"name"`
	URLName string `gorm:"type:varchar(64);not null"  json:"url_name"`
	BaseModel
}

// TableName 指定表名
func (Menu) TableName() string { return "menus" }

func (m Menu) String() string { return m.Name }

// BeforeCreate 生成主键
func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.MenuID)
	return nil
}
