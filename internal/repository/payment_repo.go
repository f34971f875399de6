package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prefect-crm/internal/model"
)

// PaymentRepository 缴费记录数据访问接口
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	List(ctx context.Context, customerID, courseID string, offset, limit int) ([]model.Payment, int64, error)
	Delete(ctx context.Context, id string) error
}

type paymentRepo struct {
	db *gorm.DB
}

// NewPaymentRepo 创建 PaymentRepository 实例
func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(payment).Error
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Course").
		Preload("Consultant").
		Where("payment_id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) List(ctx context.Context, customerID, courseID string, offset, limit int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Payment{})
	if customerID != "" {
		db = db.Where("customer_id = ?", customerID)
	}
	if courseID != "" {
		db = db.Where("course_id = ?", courseID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Customer").
		Preload("Course").
		Preload("Consultant").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *paymentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Payment{}, "payment_id = ?", id).Error
}
