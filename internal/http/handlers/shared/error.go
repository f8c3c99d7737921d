package shared

import (
	"github.com/metalworks/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RespondError 返回错误响应；err 仅记录在请求日志中，不会出现在响应体
func RespondError(c *gin.Context, code int, msg string, err error) {
	response.Fail(c, response.NewAppError(code, msg, err))
}
