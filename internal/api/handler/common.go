package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"prefect-crm/internal/model"
	pkgerrors "prefect-crm/pkg/errors"
	"prefect-crm/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// handleCommonError 处理跨模块共享的错误（枚举值域、乐观锁），已写响应时返回 true
func handleCommonError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, model.ErrInvalidSource),
		errors.Is(err, model.ErrInvalidIntention),
		errors.Is(err, model.ErrInvalidClassType),
		errors.Is(err, model.ErrInvalidAttendance),
		errors.Is(err, model.ErrInvalidScore):
		response.BadRequest(c, 10006, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Error(c, http.StatusConflict, 10007, err.Error())
	default:
		return false
	}
	return true
}

// pathID 读取路径参数 :id，缺失或不是 UUID 时写 400
func pathID(c *gin.Context, what string) (string, bool) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "缺少"+what+" ID")
		return "", false
	}
	if err := uuid.Validate(id); err != nil {
		response.BadRequest(c, 10001, "无效的"+what+" ID")
		return "", false
	}
	return id, true
}
