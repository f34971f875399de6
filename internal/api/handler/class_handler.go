package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/service"
	"prefect-crm/pkg/response"
)

// ClassHandler 班级与上课记录 HTTP 处理器
type ClassHandler struct {
	classSvc  service.ClassService
	recordSvc service.CourseRecordService
}

// NewClassHandler 创建 ClassHandler
func NewClassHandler(classSvc service.ClassService, recordSvc service.CourseRecordService) *ClassHandler {
	return &ClassHandler{classSvc: classSvc, recordSvc: recordSvc}
}

// ────────────────────── 班级 ──────────────────────

// CreateClass 开班
// POST /api/v1/classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.classSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.Created(c, result)
}

// GetClass 班级详情
// GET /api/v1/classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, ok := pathID(c, "班级")
	if !ok {
		return
	}

	result, err := h.classSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, result)
}

// ListClasses 班级列表（可按校区 / 课程筛选）
// GET /api/v1/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	var req dto.ClassListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.classSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// UpdateClass 修改班级
// PUT /api/v1/classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "班级")
	if !ok {
		return
	}

	var req dto.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.classSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, result)
}

// SetTeachers 整体替换班级讲师
// PUT /api/v1/classes/:id/teachers
func (h *ClassHandler) SetTeachers(c *gin.Context) {
	id, ok := pathID(c, "班级")
	if !ok {
		return
	}

	var req dto.SetTeachersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.classSvc.SetTeachers(c.Request.Context(), id, &req)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteClass 删除班级
// DELETE /api/v1/classes/:id
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := pathID(c, "班级")
	if !ok {
		return
	}

	if err := h.classSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, nil)
}

// ExportCalendar 导出班级课表（iCalendar）
// GET /api/v1/classes/:id/calendar.ics
func (h *ClassHandler) ExportCalendar(c *gin.Context) {
	id, ok := pathID(c, "班级")
	if !ok {
		return
	}

	data, filename, err := h.classSvc.ExportCalendar(c.Request.Context(), id)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeICS, data)
}

// ────────────────────── 上课记录 ──────────────────────

// CreateCourseRecord 新增上课记录，可同时初始化学习记录
// POST /api/v1/course-records
func (h *ClassHandler) CreateCourseRecord(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.recordSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.Created(c, result)
}

// GetCourseRecord 上课记录详情
// GET /api/v1/course-records/:id
func (h *ClassHandler) GetCourseRecord(c *gin.Context) {
	id, ok := pathID(c, "上课记录")
	if !ok {
		return
	}

	result, err := h.recordSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, result)
}

// ListCourseRecords 班级上课记录（按节次排序）
// GET /api/v1/classes/:id/course-records
func (h *ClassHandler) ListCourseRecords(c *gin.Context) {
	id, ok := pathID(c, "班级")
	if !ok {
		return
	}

	result, err := h.recordSvc.ListByClass(c.Request.Context(), id)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateCourseRecord 修改上课记录
// PUT /api/v1/course-records/:id
func (h *ClassHandler) UpdateCourseRecord(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "上课记录")
	if !ok {
		return
	}

	var req dto.UpdateCourseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.recordSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteCourseRecord 删除上课记录
// DELETE /api/v1/course-records/:id
func (h *ClassHandler) DeleteCourseRecord(c *gin.Context) {
	id, ok := pathID(c, "上课记录")
	if !ok {
		return
	}

	if err := h.recordSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, nil)
}

// InitStudyRecords 为本节课批量生成学习记录
// POST /api/v1/course-records/:id/init-study-records
func (h *ClassHandler) InitStudyRecords(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "上课记录")
	if !ok {
		return
	}

	created, err := h.recordSvc.InitStudyRecords(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, dto.InitStudyRecordsResponse{Created: created})
}

func (h *ClassHandler) handleClassError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 17001, "班级不存在")
	case errors.Is(err, service.ErrClassListExists):
		response.Conflict(c, 17002, "该校区该课程的学期已存在")
	case errors.Is(err, service.ErrClassDateRange):
		response.BadRequest(c, 17003, "结业日期不能早于开班日期")
	case errors.Is(err, service.ErrClassInvalidDate), errors.Is(err, service.ErrCourseRecordDate):
		response.BadRequest(c, 17004, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 17005, "讲师不存在")
	case errors.Is(err, service.ErrCalendarNoSessions):
		response.NotFound(c, 17006, "班级暂无上课记录")
	case errors.Is(err, service.ErrBranchNotFound):
		response.NotFound(c, 16101, "校区不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 16001, "课程不存在")
	case errors.Is(err, service.ErrCourseRecordNotFound):
		response.NotFound(c, 18001, "上课记录不存在")
	case errors.Is(err, service.ErrCourseRecordExists):
		response.Conflict(c, 18002, "该班级该节次的上课记录已存在")
	default:
		response.InternalError(c)
	}
}
