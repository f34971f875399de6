package repository

import (
	"context"

	"gorm.io/gorm"

	"prefect-crm/internal/model"
)

// FollowUpRepository 客户跟进记录数据访问接口
type FollowUpRepository interface {
	Create(ctx context.Context, followUp *model.CustomerFollowUp) error
	ListByCustomer(ctx context.Context, customerID string) ([]model.CustomerFollowUp, error)
}

type followUpRepo struct {
	db *gorm.DB
}

// NewFollowUpRepo 创建 FollowUpRepository 实例
func NewFollowUpRepo(db *gorm.DB) FollowUpRepository {
	return &followUpRepo{db: db}
}

func (r *followUpRepo) Create(ctx context.Context, followUp *model.CustomerFollowUp) error {
	return r.db.WithContext(ctx).Omit("Customer", "Consultant").Create(followUp).Error
}

// ListByCustomer 按时间倒序
func (r *followUpRepo) ListByCustomer(ctx context.Context, customerID string) ([]model.CustomerFollowUp, error) {
	var followUps []model.CustomerFollowUp
	err := r.db.WithContext(ctx).
		Preload("Consultant").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&followUps).Error
	return followUps, err
}
