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

// InterfaceApartmentController 定义公寓控制器接口
type InterfaceApartmentController interface {
	GetApartments()
	GetApartment()
	CreateApartment()
	UpdateApartment()
	DeleteApartment()
}

// ApartmentController 处理公寓相关的请求
type ApartmentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewApartmentController 创建一个新的公寓控制器
func NewApartmentController(ctx *gin.Context, container *container.ServiceContainer) *ApartmentController {
	return &ApartmentController{
		Ctx:       ctx,
		Container: container,
	}
}

// ApartmentCreatedResponse 创建公寓的响应
type ApartmentCreatedResponse struct {
	Message     string `json:"message" example:"Apartment created"`
	ApartmentID uint   `json:"apartment_id" example:"1"`
}

// HandleApartmentFunc 返回一个处理公寓请求的Gin处理函数
func HandleApartmentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewApartmentController(ctx, container)

		switch method {
		case "getApartments":
			controller.GetApartments()
		case "getApartment":
			controller.GetApartment()
		case "createApartment":
			controller.CreateApartment()
		case "updateApartment":
			controller.UpdateApartment()
		case "deleteApartment":
			controller.DeleteApartment()
		default:
			unknownMethod(ctx)
		}
	}
}

func (c *ApartmentController) service() services.InterfaceApartmentService {
	return c.Container.GetService("apartment").(services.InterfaceApartmentService)
}

// 1. GetApartments 获取所有公寓
// @Summary 获取所有公寓
// @Tags Apartment
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Apartment
// @Failure 500 {object} ErrorResponse
// @Router /apartments [get]
func (c *ApartmentController) GetApartments() {
	var apartments []models.Apartment
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		apartments, err = c.service().List(tx)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, apartments)
}

// 2. GetApartment 获取公寓详情
// @Summary 获取公寓详情
// @Tags Apartment
// @Produce json
// @Security BearerAuth
// @Param id path int true "公寓ID"
// @Success 200 {object} models.Apartment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /apartments/{id} [get]
func (c *ApartmentController) GetApartment() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}

	var apartment *models.Apartment
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		apartment, err = c.service().Get(tx, id)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, apartment)
}

// 3. CreateApartment 创建公寓
// @Summary 创建公寓
// @Description apartment_type 可选, 取值 studio, one_bedroom, two_bedroom, three_bedroom
// @Tags Apartment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ApartmentInput true "公寓信息"
// @Success 201 {object} ApartmentCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /apartments [post]
func (c *ApartmentController) CreateApartment() {
	var input models.ApartmentInput
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

	publish(c.Ctx, c.Container, "apartment", events.ActionCreated, id)
	response.Created(c.Ctx, ApartmentCreatedResponse{Message: "Apartment created", ApartmentID: id})
}

// 4. UpdateApartment 更新公寓
// @Summary 更新公寓
// @Description 替换公寓的全部可变字段
// @Tags Apartment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "公寓ID"
// @Param request body models.ApartmentInput true "公寓信息"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /apartments/{id} [put]
func (c *ApartmentController) UpdateApartment() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var input models.ApartmentInput
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

	publish(c.Ctx, c.Container, "apartment", events.ActionUpdated, id)
	response.Message(c.Ctx, "Apartment updated")
}

// 5. DeleteApartment 删除公寓
// @Summary 删除公寓
// @Tags Apartment
// @Produce json
// @Security BearerAuth
// @Param id path int true "公寓ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /apartments/{id} [delete]
func (c *ApartmentController) DeleteApartment() {
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

	publish(c.Ctx, c.Container, "apartment", events.ActionDeleted, id)
	response.Message(c.Ctx, "Apartment deleted")
}
