package response

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

const msgInternal = "Internal server error."

// AppError 接口层错误，Public 返回给调用方，Cause 只进日志
type AppError struct {
	Status int
	Public string
	Cause  error
}

// NewAppError 创建接口层错误
func NewAppError(status int, public string, cause error) *AppError {
	return &AppError{Status: status, Public: public, Cause: cause}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%d %s", e.Status, e.Public)
	}
	return fmt.Sprintf("%d %s: %v", e.Status, e.Public, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusOf 从错误链取 HTTP 状态码，未包装的错误按 500 处理
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status > 0 {
		return appErr.Status
	}
	return CodeInternal
}

// Fail 写错误响应；带内部原因时挂到 gin 上下文，由访问日志统一输出
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewAppError(CodeInternal, msgInternal, err)
	}
	if appErr.Cause != nil {
		_ = c.Error(appErr).SetType(gin.ErrorTypePrivate)
	}
	Error(c, StatusOf(appErr), appErr.Public)
}
