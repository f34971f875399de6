package handler

import (
	"github.com/gin-gonic/gin"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/service"
	"prefect-crm/pkg/response"
)

// StudyRecordHandler 学习记录 HTTP 处理器
type StudyRecordHandler struct {
	studySvc service.StudyRecordService
}

// NewStudyRecordHandler 创建 StudyRecordHandler
func NewStudyRecordHandler(studySvc service.StudyRecordService) *StudyRecordHandler {
	return &StudyRecordHandler{studySvc: studySvc}
}

// CreateStudyRecord 录入学习记录
// POST /api/v1/study-records
func (h *StudyRecordHandler) CreateStudyRecord(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateStudyRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studySvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateStudyRecord 修改出勤 / 成绩 / 备注
// PUT /api/v1/study-records/:id
func (h *StudyRecordHandler) UpdateStudyRecord(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "学习记录")
	if !ok {
		return
	}

	var req dto.UpdateStudyRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studySvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// ListStudyRecords 按上课记录或报名查询学习记录
// GET /api/v1/study-records?course_record_id=&enrollment_id=
func (h *StudyRecordHandler) ListStudyRecords(c *gin.Context) {
	var req dto.StudyRecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studySvc.List(c.Request.Context(), &req)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteStudyRecord 删除学习记录
// DELETE /api/v1/study-records/:id
func (h *StudyRecordHandler) DeleteStudyRecord(c *gin.Context) {
	id, ok := pathID(c, "学习记录")
	if !ok {
		return
	}

	if err := h.studySvc.Delete(c.Request.Context(), id); err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetSummary 学员出勤与成绩汇总
// GET /api/v1/enrollments/:id/summary
func (h *StudyRecordHandler) GetSummary(c *gin.Context) {
	id, ok := pathID(c, "报名")
	if !ok {
		return
	}

	result, err := h.studySvc.Summary(c.Request.Context(), id)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportScoreSheet 导出班级成绩表
// GET /api/v1/classes/:id/score-sheet
func (h *StudyRecordHandler) ExportScoreSheet(c *gin.Context) {
	id, ok := pathID(c, "班级")
	if !ok {
		return
	}

	buf, filename, err := h.studySvc.ExportScoreSheet(c.Request.Context(), id)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeXLSX, buf.Bytes())
}
