package handler

import (
	"github.com/gin-gonic/gin"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/service"
	"prefect-crm/pkg/response"
)

// PaymentHandler 缴费记录 HTTP 处理器
type PaymentHandler struct {
	paymentSvc service.PaymentService
}

// NewPaymentHandler 创建 PaymentHandler
func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// CreatePayment 登记缴费，未填金额时取默认金额
// POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.paymentSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.Created(c, result)
}

// GetPayment 缴费详情
// GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := pathID(c, "缴费记录")
	if !ok {
		return
	}

	result, err := h.paymentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// ListPayments 缴费列表（分页）
// GET /api/v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var req dto.PaymentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.paymentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// DeletePayment 删除缴费记录
// DELETE /api/v1/payments/:id
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	id, ok := pathID(c, "缴费记录")
	if !ok {
		return
	}

	if err := h.paymentSvc.Delete(c.Request.Context(), id); err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, nil)
}
