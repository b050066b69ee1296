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

// InterfaceTenancyController 定义租约控制器接口
type InterfaceTenancyController interface {
	GetTenancies()
	GetTenancy()
	CreateTenancy()
	UpdateTenancy()
	DeleteTenancy()
}

// TenancyController 处理租约相关的请求
type TenancyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTenancyController 创建一个新的租约控制器
func NewTenancyController(ctx *gin.Context, container *container.ServiceContainer) *TenancyController {
	return &TenancyController{
		Ctx:       ctx,
		Container: container,
	}
}

// TenancyCreatedResponse 创建租约的响应
type TenancyCreatedResponse struct {
	Message   string `json:"message" example:"Tenancy created"`
	TenancyID uint   `json:"tenancy_id" example:"1"`
}

// HandleTenancyFunc 返回一个处理租约请求的Gin处理函数
func HandleTenancyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTenancyController(ctx, container)

		switch method {
		case "getTenancies":
			controller.GetTenancies()
		case "getTenancy":
			controller.GetTenancy()
		case "createTenancy":
			controller.CreateTenancy()
		case "updateTenancy":
			controller.UpdateTenancy()
		case "deleteTenancy":
			controller.DeleteTenancy()
		default:
			unknownMethod(ctx)
		}
	}
}

func (c *TenancyController) service() services.InterfaceTenancyService {
	return c.Container.GetService("tenancy").(services.InterfaceTenancyService)
}

// 1. GetTenancies 获取所有租约
// @Summary 获取所有租约
// @Tags Tenancy
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Tenancy
// @Failure 500 {object} ErrorResponse
// @Router /tenancies [get]
func (c *TenancyController) GetTenancies() {
	var tenancies []models.Tenancy
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		tenancies, err = c.service().List(tx)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, tenancies)
}

// 2. GetTenancy 获取租约详情
// @Summary 获取租约详情
// @Tags Tenancy
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约ID"
// @Success 200 {object} models.Tenancy
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenancies/{id} [get]
func (c *TenancyController) GetTenancy() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}

	var tenancy *models.Tenancy
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		tenancy, err = c.service().Get(tx, id)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, tenancy)
}

// 3. CreateTenancy 创建租约
// @Summary 创建租约
// @Description active 接受 0/1 或 true/false, 未提供时默认为 1
// @Tags Tenancy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.TenancyInput true "租约信息"
// @Success 201 {object} TenancyCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenancies [post]
func (c *TenancyController) CreateTenancy() {
	var input models.TenancyInput
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

	publish(c.Ctx, c.Container, "tenancy", events.ActionCreated, id)
	response.Created(c.Ctx, TenancyCreatedResponse{Message: "Tenancy created", TenancyID: id})
}

// 4. UpdateTenancy 更新租约
// @Summary 更新租约
// @Description 替换租约的全部可变字段, 未提供 active 时重置为 1
// @Tags Tenancy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约ID"
// @Param request body models.TenancyInput true "租约信息"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenancies/{id} [put]
func (c *TenancyController) UpdateTenancy() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var input models.TenancyInput
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

	publish(c.Ctx, c.Container, "tenancy", events.ActionUpdated, id)
	response.Message(c.Ctx, "Tenancy updated")
}

// 5. DeleteTenancy 删除租约
// @Summary 删除租约
// @Tags Tenancy
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenancies/{id} [delete]
func (c *TenancyController) DeleteTenancy() {
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

	publish(c.Ctx, c.Container, "tenancy", events.ActionDeleted, id)
	response.Message(c.Ctx, "Tenancy deleted")
}
