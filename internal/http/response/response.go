package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 统一错误响应结构
type ErrorBody struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// MessageBody 仅含提示消息的成功响应
type MessageBody struct {
	Message string `json:"message"`
}

// OK 200 响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 200 响应，只返回提示消息
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageBody{Message: msg})
}

// Error 错误响应，HTTP 状态码即业务状态码
func Error(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, ErrorBody{
		Message:   msg,
		RequestID: RequestID(c),
	})
}

// AbortWithError 中断后续处理并返回错误
func AbortWithError(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{
		Message:   msg,
		RequestID: RequestID(c),
	})
}

// RequestID 读取中间件写入的请求 ID
func RequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
