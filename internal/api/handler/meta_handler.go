package handler

import (
	"github.com/gin-gonic/gin"

	"prefect-crm/internal/service"
	"prefect-crm/pkg/response"
)

// MetaHandler 枚举元数据
type MetaHandler struct {
	metaSvc service.MetaService
}

// NewMetaHandler 创建 MetaHandler
func NewMetaHandler(metaSvc service.MetaService) *MetaHandler {
	return &MetaHandler{metaSvc: metaSvc}
}

// GetChoices 全部枚举选项与实体中文名
// GET /api/v1/meta/choices
func (h *MetaHandler) GetChoices(c *gin.Context) {
	response.OK(c, h.metaSvc.Choices())
}
