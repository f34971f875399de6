package service

import (
	"go.uber.org/zap"

	"prefect-crm/config"
	"prefect-crm/internal/repository"
	"prefect-crm/pkg/jwt"
	"prefect-crm/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Profile      ProfileService
	Role         RoleService
	Menu         MenuService
	Tag          TagService
	Customer     CustomerService
	Course       CourseService
	Branch       BranchService
	Class        ClassService
	CourseRecord CourseRecordService
	Enrollment   EnrollmentService
	StudyRecord  StudyRecordService
	Payment      PaymentService
	Meta         MetaService
}

// NewService 创建 Service 聚合；cache 为 nil 时不启用黑名单与课程缓存
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, cache, logger),
		Profile:      NewProfileService(repo, logger),
		Role:         NewRoleService(repo, logger),
		Menu:         NewMenuService(repo, logger),
		Tag:          NewTagService(repo, logger),
		Customer:     NewCustomerService(repo, &cfg.CRM, logger),
		Course:       NewCourseService(repo, cache, &cfg.CRM, logger),
		Branch:       NewBranchService(repo, logger),
		Class:        NewClassService(repo, logger),
		CourseRecord: NewCourseRecordService(repo, logger),
		Enrollment:   NewEnrollmentService(repo, logger),
		StudyRecord:  NewStudyRecordService(repo, logger),
		Payment:      NewPaymentService(repo, &cfg.CRM, logger),
		Meta:         NewMetaService(),
	}
}
