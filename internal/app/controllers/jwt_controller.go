package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"property-http-service/internal/domain/services"
	"property-http-service/internal/domain/services/container"
	"property-http-service/internal/error/code"
	"property-http-service/internal/error/response"
)

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// HandleJWTFunc 返回一个处理JWT认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		default:
			unknownMethod(ctx)
		}
	}
}

// Login 处理管理员登录
// @Summary      管理员登录
// @Description  校验管理员账号并返回 Bearer 令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录信息"
// @Success      200 {object} services.LoginResult
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	jwtService := c.Container.JWT()
	if jwtService == nil {
		response.Fail(c.Ctx, code.ErrLoginFailed)
		return
	}

	result, err := jwtService.Login(req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		response.Fail(c.Ctx, code.ErrLoginFailed)
		return
	}
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}
