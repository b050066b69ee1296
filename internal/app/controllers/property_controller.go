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

// InterfacePropertyController 定义物业控制器接口
type InterfacePropertyController interface {
	GetProperties()
	GetProperty()
	CreateProperty()
	UpdateProperty()
	DeleteProperty()
}

// PropertyController 处理物业相关的请求
type PropertyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPropertyController 创建一个新的物业控制器
func NewPropertyController(ctx *gin.Context, container *container.ServiceContainer) *PropertyController {
	return &PropertyController{
		Ctx:       ctx,
		Container: container,
	}
}

// PropertyCreatedResponse 创建物业的响应
type PropertyCreatedResponse struct {
	Message    string `json:"message" example:"Property created"`
	PropertyID uint   `json:"property_id" example:"1"`
}

// HandlePropertyFunc 返回一个处理物业请求的Gin处理函数
func HandlePropertyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPropertyController(ctx, container)

		switch method {
		case "getProperties":
			controller.GetProperties()
		case "getProperty":
			controller.GetProperty()
		case "createProperty":
			controller.CreateProperty()
		case "updateProperty":
			controller.UpdateProperty()
		case "deleteProperty":
			controller.DeleteProperty()
		default:
			unknownMethod(ctx)
		}
	}
}

func (c *PropertyController) service() services.InterfacePropertyService {
	return c.Container.GetService("property").(services.InterfacePropertyService)
}

// 1. GetProperties 获取所有物业
// @Summary 获取所有物业
// @Tags Property
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Property
// @Failure 500 {object} ErrorResponse
// @Router /properties [get]
func (c *PropertyController) GetProperties() {
	var properties []models.Property
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		properties, err = c.service().List(tx)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, properties)
}

// 2. GetProperty 获取物业详情
// @Summary 获取物业详情
// @Tags Property
// @Produce json
// @Security BearerAuth
// @Param id path int true "物业ID"
// @Success 200 {object} models.Property
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /properties/{id} [get]
func (c *PropertyController) GetProperty() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}

	var property *models.Property
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		property, err = c.service().Get(tx, id)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, property)
}

// 3. CreateProperty 创建物业
// @Summary 创建物业
// @Tags Property
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PropertyInput true "物业信息"
// @Success 201 {object} PropertyCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /properties [post]
func (c *PropertyController) CreateProperty() {
	var input models.PropertyInput
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

	publish(c.Ctx, c.Container, "property", events.ActionCreated, id)
	response.Created(c.Ctx, PropertyCreatedResponse{Message: "Property created", PropertyID: id})
}

// 4. UpdateProperty 更新物业
// @Summary 更新物业
// @Description 替换物业的全部可变字段
// @Tags Property
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "物业ID"
// @Param request body models.PropertyInput true "物业信息"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /properties/{id} [put]
func (c *PropertyController) UpdateProperty() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var input models.PropertyInput
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

	publish(c.Ctx, c.Container, "property", events.ActionUpdated, id)
	response.Message(c.Ctx, "Property updated")
}

// 5. DeleteProperty 删除物业
// @Summary 删除物业
// @Tags Property
// @Produce json
// @Security BearerAuth
// @Param id path int true "物业ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /properties/{id} [delete]
func (c *PropertyController) DeleteProperty() {
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

	publish(c.Ctx, c.Container, "property", events.ActionDeleted, id)
	response.Message(c.Ctx, "Property deleted")
}
