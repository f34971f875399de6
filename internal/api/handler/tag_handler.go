package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/service"
	"prefect-crm/pkg/response"
)

// TagHandler 客户标签 HTTP 处理器
type TagHandler struct {
	tagSvc service.TagService
}

// NewTagHandler 创建 TagHandler
func NewTagHandler(tagSvc service.TagService) *TagHandler {
	return &TagHandler{tagSvc: tagSvc}
}

// CreateTag 创建标签
// POST /api/v1/tags
func (h *TagHandler) CreateTag(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.tagSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNameExists):
			response.Conflict(c, 14002, "标签名称已存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ListTags 标签列表
// GET /api/v1/tags
func (h *TagHandler) ListTags(c *gin.Context) {
	result, err := h.tagSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// DeleteTag 删除标签
// DELETE /api/v1/tags/:id
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "标签")
	if !ok {
		return
	}

	if err := h.tagSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			response.NotFound(c, 14001, "标签不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
