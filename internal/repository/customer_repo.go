package repository

import (
	"context"

	"gorm.io/gorm"

	"prefect-crm/internal/model"
	pkgerrors "prefect-crm/pkg/errors"
)

// CustomerFilter 客户列表过滤条件
type CustomerFilter struct {
	Source       *model.CustomerSource
	ConsultantID string
	TagID        string
	Keyword      string // 模糊匹配姓名 / QQ / 电话
}

// CustomerRepository 客户数据访问接口
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	ExistsByContactID(ctx context.Context, contactID, excludeID string) (bool, error)
	List(ctx context.Context, filter CustomerFilter, offset, limit int) ([]model.Customer, int64, error)
	// ListAll 不分页，导出使用
	ListAll(ctx context.Context, filter CustomerFilter) ([]model.Customer, error)
	// Update 乐观锁更新，版本不匹配返回 ErrOptimisticLock
	Update(ctx context.Context, customer *model.Customer) error
	ReplaceTags(ctx context.Context, customer *model.Customer, tags []model.Tag) error
	Delete(ctx context.Context, id string) error
}

type customerRepo struct {
	db *gorm.DB
}

// NewCustomerRepo 创建 CustomerRepository 实例
func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).
		Omit("ConsultCourse", "Consultant", "Tags.*").
		Create(customer).Error
}

func (r *customerRepo) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Preload("ConsultCourse").
		Preload("Consultant").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("customer_id = ?", id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) ExistsByContactID(ctx context.Context, contactID, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Customer{}).Where("contact_id = ?", contactID)
	if excludeID != "" {
		db = db.Where("customer_id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *customerRepo) List(ctx context.Context, filter CustomerFilter, offset, limit int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.Customer{}), filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("ConsultCourse").
		Preload("Consultant").
		Preload("Tags").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

func (r *customerRepo) ListAll(ctx context.Context, filter CustomerFilter) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.applyFilter(r.db.WithContext(ctx).Model(&model.Customer{}), filter).
		Preload("ConsultCourse").
		Preload("Consultant").
		Preload("Tags").
		Order("created_at ASC").
		Find(&customers).Error
	return customers, err
}

func (r *customerRepo) applyFilter(db *gorm.DB, filter CustomerFilter) *gorm.DB {
	if filter.Source != nil {
		db = db.Where("source = ?", *filter.Source)
	}
	if filter.ConsultantID != "" {
		db = db.Where("consultant_id = ?", filter.ConsultantID)
	}
	if filter.TagID != "" {
		db = db.Where("customer_id IN (?)",
			r.db.Table("customer_tags").Select("customer_id").Where("tag_id = ?", filter.TagID))
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("name LIKE ? OR contact_id LIKE ? OR phone LIKE ?", like, like, like)
	}
	return db
}

func (r *customerRepo) Update(ctx context.Context, customer *model.Customer) error {
	oldVersion := customer.Version
	result := r.db.WithContext(ctx).
		Model(customer).
		Where("customer_id = ? AND version = ?", customer.CustomerID, oldVersion).
		Updates(map[string]interface{}{
			"name":              customer.Name,
			"contact_id":        customer.ContactID,
			"contact_name":      customer.ContactName,
			"phone":             customer.Phone,
			"source":            customer.Source,
			"referral_from":     customer.ReferralFrom,
			"consult_course_id": customer.ConsultCourseID,
			"content":           customer.Content,
			"consultant_id":     customer.ConsultantID,
			"memo":              customer.Memo,
			"updated_by":        customer.UpdatedBy,
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	customer.Version = oldVersion + 1
	return nil
}

func (r *customerRepo) ReplaceTags(ctx context.Context, customer *model.Customer, tags []model.Tag) error {
	association := r.db.WithContext(ctx).Model(customer).Association("Tags")
	if len(tags) == 0 {
		return association.Clear()
	}
	return association.Replace(tags)
}

func (r *customerRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM customer_tags WHERE customer_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Customer{}, "customer_id = ?", id).Error
	})
}
