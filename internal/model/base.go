package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// Stamp 记录操作人
func (b *BaseModel) Stamp(callerID string) {
	if callerID == "" {
		return
	}
	if b.CreatedBy == nil {
		b.CreatedBy = &callerID
	}
	b.UpdatedBy = &callerID
}

// VersionedModel 支持乐观锁的模型
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// ensureID 主键为空时生成 UUID（PostgreSQL 侧也有 gen_random_uuid() 默认值）
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// today 当天零点，对应 date 类型字段的自动填充
func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
