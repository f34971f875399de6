package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Account      AccountRepository
	Profile      ProfileRepository
	Role         RoleRepository
	Menu         MenuRepository
	Tag          TagRepository
	Customer     CustomerRepository
	FollowUp     FollowUpRepository
	Course       CourseRepository
	Branch       BranchRepository
	Class        ClassRepository
	CourseRecord CourseRecordRepository
	Enrollment   EnrollmentRepository
	StudyRecord  StudyRecordRepository
	Payment      PaymentRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Account:      NewAccountRepo(db),
		Profile:      NewProfileRepo(db),
		Role:         NewRoleRepo(db),
		Menu:         NewMenuRepo(db),
		Tag:          NewTagRepo(db),
		Customer:     NewCustomerRepo(db),
		FollowUp:     NewFollowUpRepo(db),
		Course:       NewCourseRepo(db),
		Branch:       NewBranchRepo(db),
		Class:        NewClassRepo(db),
		CourseRecord: NewCourseRecordRepo(db),
		Enrollment:   NewEnrollmentRepo(db),
		StudyRecord:  NewStudyRecordRepo(db),
		Payment:      NewPaymentRepo(db),
	}
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个事务中执行 fn，fn 返回错误时回滚
// fn 内部只能使用传入的 txRepo
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// Ping 检查数据库连通性，供 /health 使用
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
