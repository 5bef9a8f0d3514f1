package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YashBansal1/L-D-Portal/pkg/response"
)

// BodyLimit 请求体大小限制；超限时读取请求体返回错误，由 Handler 的参数绑定转为 400
// maxBytes: 允许的最大请求体字节数（Excel 导入路由单独放宽）
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && c.Request.ContentLength <= maxBytes {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		} else if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		c.Next()
	}
}
