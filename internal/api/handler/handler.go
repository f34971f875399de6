package handler

import "prefect-crm/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Role        *RoleHandler
	Tag         *TagHandler
	Customer    *CustomerHandler
	Catalog     *CatalogHandler
	Class       *ClassHandler
	Enrollment  *EnrollmentHandler
	StudyRecord *StudyRecordHandler
	Payment     *PaymentHandler
	Meta        *MetaHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Profile:     NewProfileHandler(svc.Profile),
		Role:        NewRoleHandler(svc.Role, svc.Menu),
		Tag:         NewTagHandler(svc.Tag),
		Customer:    NewCustomerHandler(svc.Customer),
		Catalog:     NewCatalogHandler(svc.Course, svc.Branch),
		Class:       NewClassHandler(svc.Class, svc.CourseRecord),
		Enrollment:  NewEnrollmentHandler(svc.Enrollment),
		StudyRecord: NewStudyRecordHandler(svc.StudyRecord),
		Payment:     NewPaymentHandler(svc.Payment),
		Meta:        NewMetaHandler(svc.Meta),
	}
}
