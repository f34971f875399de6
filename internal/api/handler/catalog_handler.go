package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/service"
	"prefect-crm/pkg/response"
)

// CatalogHandler 课程与校区 HTTP 处理器
type CatalogHandler struct {
	courseSvc service.CourseService
	branchSvc service.BranchService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(courseSvc service.CourseService, branchSvc service.BranchService) *CatalogHandler {
	return &CatalogHandler{courseSvc: courseSvc, branchSvc: branchSvc}
}

// ────────────────────── 课程 ──────────────────────

// CreateCourse 创建课程
// POST /api/v1/courses
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, result)
}

// GetCourse 课程详情
// GET /api/v1/courses/:id
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	id, ok := pathID(c, "课程")
	if !ok {
		return
	}

	result, err := h.courseSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, result)
}

// ListCourses 课程列表
// GET /api/v1/courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	result, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateCourse 修改课程
// PUT /api/v1/courses/:id
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "课程")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteCourse 删除课程（客户的咨询课程置空）
// DELETE /api/v1/courses/:id
func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	id, ok := pathID(c, "课程")
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 校区 ──────────────────────

// CreateBranch 创建校区
// POST /api/v1/branches
func (h *CatalogHandler) CreateBranch(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.branchSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, result)
}

// GetBranch 校区详情
// GET /api/v1/branches/:id
func (h *CatalogHandler) GetBranch(c *gin.Context) {
	id, ok := pathID(c, "校区")
	if !ok {
		return
	}

	result, err := h.branchSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, result)
}

// ListBranches 校区列表
// GET /api/v1/branches
func (h *CatalogHandler) ListBranches(c *gin.Context) {
	result, err := h.branchSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateBranch 修改校区
// PUT /api/v1/branches/:id
func (h *CatalogHandler) UpdateBranch(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "校区")
	if !ok {
		return
	}

	var req dto.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.branchSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteBranch 删除校区（级联删除班级）
// DELETE /api/v1/branches/:id
func (h *CatalogHandler) DeleteBranch(c *gin.Context) {
	id, ok := pathID(c, "校区")
	if !ok {
		return
	}

	if err := h.branchSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 16001, "课程不存在")
	case errors.Is(err, service.ErrCourseNameExists):
		response.Conflict(c, 16002, "课程名称已存在")
	case errors.Is(err, service.ErrBranchNotFound):
		response.NotFound(c, 16101, "校区不存在")
	case errors.Is(err, service.ErrBranchNameExists):
		response.Conflict(c, 16102, "校区名称已存在")
	default:
		response.InternalError(c)
	}
}
