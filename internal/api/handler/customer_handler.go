package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/service"
	"prefect-crm/pkg/response"
)

// CustomerHandler 客户模块 HTTP 处理器
type CustomerHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHandler 创建 CustomerHandler
func NewCustomerHandler(customerSvc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerSvc: customerSvc}
}

// CreateCustomer 登记客户
// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.customerSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.Created(c, result)
}

// GetCustomer 客户详情
// GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c, "客户")
	if !ok {
		return
	}

	result, err := h.customerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.OK(c, result)
}

// ListCustomers 客户列表（分页，支持来源 / 顾问 / 标签 / 关键字筛选）
// GET /api/v1/customers
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	var req dto.CustomerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.customerSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateCustomer 修改客户（需携带 version）
// PUT /api/v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "客户")
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.customerSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.OK(c, result)
}

// SetTags 整体替换客户标签
// PUT /api/v1/customers/:id/tags
func (h *CustomerHandler) SetTags(c *gin.Context) {
	id, ok := pathID(c, "客户")
	if !ok {
		return
	}

	var req dto.SetCustomerTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.customerSvc.SetTags(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteCustomer 删除客户
// DELETE /api/v1/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c, "客户")
	if !ok {
		return
	}

	if err := h.customerSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 跟进记录 ──────────────────────

// AddFollowUp 新增跟进记录
// POST /api/v1/customers/:id/follow-ups
func (h *CustomerHandler) AddFollowUp(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "客户")
	if !ok {
		return
	}

	var req dto.CreateFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.customerSvc.AddFollowUp(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.Created(c, result)
}

// ListFollowUps 客户跟进记录（新的在前）
// GET /api/v1/customers/:id/follow-ups
func (h *CustomerHandler) ListFollowUps(c *gin.Context) {
	id, ok := pathID(c, "客户")
	if !ok {
		return
	}

	result, err := h.customerSvc.ListFollowUps(c.Request.Context(), id)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.OK(c, result)
}

// ────────────────────── Excel 导入导出 ──────────────────────

// ImportCustomers 从 Excel 批量导入客户
// POST /api/v1/customers/import  (multipart/form-data, file=xxx.xlsx)
func (h *CustomerHandler) ImportCustomers(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 15007, "请上传 Excel 文件")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		response.BadRequest(c, 15007, "仅支持 .xlsx 文件")
		return
	}

	rows, err := h.customerSvc.ParseImportFile(file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportNoData):
			response.BadRequest(c, 15004, "Excel文件无数据行")
		case errors.Is(err, service.ErrImportTooManyRows):
			response.BadRequest(c, 15005, err.Error())
		case errors.Is(err, service.ErrImportBadHeader):
			response.BadRequest(c, 15006, "Excel表头缺少必要列（QQ/来源/咨询详情）")
		default:
			response.BadRequest(c, 15008, "无法解析Excel文件")
		}
		return
	}

	result, err := h.customerSvc.Import(c.Request.Context(), rows, callerID)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportCustomers 按筛选条件导出客户表
// GET /api/v1/customers/export
func (h *CustomerHandler) ExportCustomers(c *gin.Context) {
	var req dto.CustomerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.customerSvc.Export(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

func (h *CustomerHandler) handleCustomerError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		response.NotFound(c, 15001, "客户不存在")
	case errors.Is(err, service.ErrCustomerContactExists):
		response.Conflict(c, 15002, "该QQ号已登记")
	case errors.Is(err, service.ErrConsultantNotFound):
		response.NotFound(c, 15003, "课程顾问不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 16001, "课程不存在")
	case errors.Is(err, service.ErrTagNotFound):
		response.NotFound(c, 14001, "标签不存在")
	default:
		response.InternalError(c)
	}
}
