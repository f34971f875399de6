package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"prefect-crm/pkg/response"
)

// BodyLimit 请求体大小限制
// JSON 请求按 maxBytes 限制，multipart 上传（客户 Excel 导入）按 uploadMaxBytes 限制
func BodyLimit(maxBytes, uploadMaxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			limit := maxBytes
			if strings.HasPrefix(c.ContentType(), "multipart/") && uploadMaxBytes > 0 {
				limit = uploadMaxBytes
			}
			if c.Request.ContentLength > limit {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				c.Abort()
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		c.Next()

		if c.IsAborted() || c.Writer.Written() {
			return
		}
		var tooLarge *http.MaxBytesError
		for _, e := range c.Errors {
			if errors.As(e.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
