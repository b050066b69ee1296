package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"property-http-service/internal/domain/models"
	"property-http-service/internal/domain/services"
	"property-http-service/internal/domain/services/container"
	"property-http-service/internal/error/response"
	"property-http-service/internal/infrastructure/events"
)

// InterfaceTenantController 定义租户控制器接口
type InterfaceTenantController interface {
	GetTenants()
	GetTenant()
	CreateTenant()
	UpdateTenant()
	DeleteTenant()
}

// TenantController 处理租户相关的请求
type TenantController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTenantController 创建一个新的租户控制器
func NewTenantController(ctx *gin.Context, container *container.ServiceContainer) *TenantController {
	return &TenantController{
		Ctx:       ctx,
		Container: container,
	}
}

// TenantCreatedResponse 创建租户的响应
type TenantCreatedResponse struct {
	Message  string `json:"message" example:"Tenant created"`
	TenantID uint   `json:"tenant_id" example:"1"`
}

// HandleTenantFunc 返回一个处理租户请求的Gin处理函数
func HandleTenantFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTenantController(ctx, container)

		switch method {
		case "getTenants":
			controller.GetTenants()
		case "getTenant":
			controller.GetTenant()
		case "createTenant":
			controller.CreateTenant()
		case "updateTenant":
			controller.UpdateTenant()
		case "deleteTenant":
			controller.DeleteTenant()
		default:
			unknownMethod(ctx)
		}
	}
}

func (c *TenantController) service() services.InterfaceTenantService {
	return c.Container.GetService("tenant").(services.InterfaceTenantService)
}

// 1. GetTenants 获取所有租户
// @Summary 获取所有租户
// @Tags Tenant
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Tenant
// @Failure 500 {object} ErrorResponse
// @Router /tenants [get]
func (c *TenantController) GetTenants() {
	var tenants []models.Tenant
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		tenants, err = c.service().List(tx)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, tenants)
}

// 2. GetTenant 获取租户详情
// @Summary 获取租户详情
// @Tags Tenant
// @Produce json
// @Security BearerAuth
// @Param id path int true "租户ID"
// @Success 200 {object} models.Tenant
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenants/{id} [get]
func (c *TenantController) GetTenant() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}

	var tenant *models.Tenant
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		tenant, err = c.service().Get(tx, id)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, tenant)
}

// 3. CreateTenant 创建租户
// @Summary 创建租户
// @Tags Tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.TenantInput true "租户信息"
// @Success 201 {object} TenantCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenants [post]
func (c *TenantController) CreateTenant() {
	var input models.TenantInput
	if !bindJSON(c.Ctx, &input) {
		return
	}

	var id uint
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		id, err = c.service().Create(tx, input)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	publish(c.Ctx, c.Container, "tenant", events.ActionCreated, id)
	response.Created(c.Ctx, TenantCreatedResponse{Message: "Tenant created", TenantID: id})
}

// 4. UpdateTenant 更新租户
// @Summary 更新租户
// @Description 替换租户的全部可变字段
// @Tags Tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租户ID"
// @Param request body models.TenantInput true "租户信息"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenants/{id} [put]
func (c *TenantController) UpdateTenant() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var input models.TenantInput
	if !bindJSON(c.Ctx, &input) {
		return
	}

	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		return c.service().Update(tx, id, input)
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	publish(c.Ctx, c.Container, "tenant", events.ActionUpdated, id)
	response.Message(c.Ctx, "Tenant updated")
}

// 5. DeleteTenant 删除租户
// @Summary 删除租户
// @Tags Tenant
// @Produce json
// @Security BearerAuth
// @Param id path int true "租户ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenants/{id} [delete]
func (c *TenantController) DeleteTenant() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}

	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		return c.service().Delete(tx, id)
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	publish(c.Ctx, c.Container, "tenant", events.ActionDeleted, id)
	response.Message(c.Ctx, "Tenant deleted")
}
