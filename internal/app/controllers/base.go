package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"property-http-service/internal/domain/services/container"
	"property-http-service/internal/error/code"
	"property-http-service/internal/error/response"
	"property-http-service/internal/infrastructure/events"
)

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Error string `json:"error" example:"Property not found"`
	Code  int    `json:"code" example:"101000"`
}

// MessageResponse 表示仅包含提示消息的响应
type MessageResponse struct {
	Message string `json:"message" example:"Property updated"`
}

// parseID 解析路径中的正整数ID, 失败时直接返回 400
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(ctx, code.ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

// bindJSON 解析请求体, 失败时直接返回 400
func bindJSON(ctx *gin.Context, dest interface{}) bool {
	if err := ctx.ShouldBindJSON(dest); err != nil {
		response.FailWithMessage(ctx, code.ErrBind, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// unknownMethod 路由注册了不存在的方法
func unknownMethod(ctx *gin.Context) {
	response.FailWithMessage(ctx, code.ErrUnknown, "unknown handler method")
}

// publish 写操作成功后发布变更事件
func publish(ctx *gin.Context, c *container.ServiceContainer, entity, action string, id uint) {
	c.Publish(ctx.Request.Context(), events.ChangeEvent{Entity: entity, Action: action, ID: id})
}
