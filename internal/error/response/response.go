package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"property-http-service/internal/error/apperror"
	"property-http-service/internal/error/code"
)

// ErrorBody 定义统一的错误响应格式
type ErrorBody struct {
	Error  string                `json:"error"`
	Code   int                   `json:"code"`
	Fields []apperror.FieldError `json:"fields,omitempty"`
}

// Success 成功响应, 直接输出数据
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 仅包含提示消息的成功响应
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Fail 失败响应
func Fail(c *gin.Context, errorCode int) {
	FailWithMessage(c, errorCode, code.GetMessage(errorCode))
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, errorCode int, message string) {
	c.AbortWithStatusJSON(code.GetStatus(errorCode), ErrorBody{
		Error: message,
		Code:  errorCode,
	})
}

// Error 根据错误类型输出对应的失败响应
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var validationErr *apperror.ValidationError
	if errors.As(err, &validationErr) {
		c.AbortWithStatusJSON(code.GetStatus(validationErr.ErrCode), ErrorBody{
			Error:  validationErr.Message,
			Code:   validationErr.ErrCode,
			Fields: validationErr.Fields,
		})
		return
	}

	FailWithMessage(c, apperror.CodeOf(err), err.Error())
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context) {
	Fail(c, code.ErrTokenInvalid)
}
