package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/service"
	"prefect-crm/pkg/response"
)

// EnrollmentHandler 报名 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// CreateEnrollment 客户报名班级
// POST /api/v1/enrollments
func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.enrollmentSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.Created(c, result)
}

// GetEnrollment 报名详情
// GET /api/v1/enrollments/:id
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	id, ok := pathID(c, "报名")
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// ListEnrollments 报名列表（按班级或客户）
// GET /api/v1/enrollments?class_id=&customer_id=
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	var req dto.EnrollmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.enrollmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// AgreeContract 学员同意合同
// POST /api/v1/enrollments/:id/agree
func (h *EnrollmentHandler) AgreeContract(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "报名")
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.AgreeContract(c.Request.Context(), id, callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// ApproveContract 审核合同
// POST /api/v1/enrollments/:id/approve
func (h *EnrollmentHandler) ApproveContract(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "报名")
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.ApproveContract(c.Request.Context(), id, callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteEnrollment 取消报名
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) DeleteEnrollment(c *gin.Context) {
	id, ok := pathID(c, "报名")
	if !ok {
		return
	}

	if err := h.enrollmentSvc.Delete(c.Request.Context(), id); err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleEnrollmentError 报名、学习记录、缴费共用的错误映射
func handleEnrollmentError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrEnrollmentNotFound):
		response.NotFound(c, 19001, "报名记录不存在")
	case errors.Is(err, service.ErrEnrollmentExists):
		response.Conflict(c, 19002, "该客户已报名此班级")
	case errors.Is(err, service.ErrContractNotAgreed):
		response.BadRequest(c, 19003, "学员尚未同意合同条款，不能审核")
	case errors.Is(err, service.ErrStudyRecordNotFound):
		response.NotFound(c, 20001, "学习记录不存在")
	case errors.Is(err, service.ErrStudyRecordExists):
		response.Conflict(c, 20002, "该学员本节课的学习记录已存在")
	case errors.Is(err, service.ErrStudyRecordClassMismatch):
		response.BadRequest(c, 20003, "报名班级与上课记录班级不一致")
	case errors.Is(err, service.ErrStudyRecordListFilter):
		response.BadRequest(c, 20004, "需指定上课记录或报名记录")
	case errors.Is(err, service.ErrPaymentNotFound):
		response.NotFound(c, 21001, "缴费记录不存在")
	case errors.Is(err, service.ErrCustomerNotFound):
		response.NotFound(c, 15001, "客户不存在")
	case errors.Is(err, service.ErrConsultantNotFound):
		response.NotFound(c, 15003, "课程顾问不存在")
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 17001, "班级不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 16001, "课程不存在")
	case errors.Is(err, service.ErrCourseRecordNotFound):
		response.NotFound(c, 18001, "上课记录不存在")
	default:
		response.InternalError(c)
	}
}
