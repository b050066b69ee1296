package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"property-http-service/internal/domain/models"
	"property-http-service/internal/domain/services"
	"property-http-service/internal/domain/services/container"
	"property-http-service/internal/error/response"
)

// MoveHistoryController 处理租户搬迁记录的请求, 只读
type MoveHistoryController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewMoveHistoryController 创建搬迁记录控制器
func NewMoveHistoryController(ctx *gin.Context, container *container.ServiceContainer) *MoveHistoryController {
	return &MoveHistoryController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleMoveHistoryFunc 返回一个处理搬迁记录请求的Gin处理函数
func HandleMoveHistoryFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewMoveHistoryController(ctx, container)

		switch method {
		case "getMoveHistory":
			controller.GetMoveHistory()
		case "getTenancyMoveHistory":
			controller.GetTenancyMoveHistory()
		default:
			unknownMethod(ctx)
		}
	}
}

func (c *MoveHistoryController) service() services.InterfaceMoveHistoryService {
	return c.Container.GetService("move_history").(services.InterfaceMoveHistoryService)
}

// 1. GetMoveHistory 获取全部搬迁记录
// @Summary 获取全部搬迁记录
// @Tags MoveHistory
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MoveHistory
// @Failure 500 {object} ErrorResponse
// @Router /tenant-move-history [get]
func (c *MoveHistoryController) GetMoveHistory() {
	var rows []models.MoveHistory
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		rows, err = c.service().List(tx)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, rows)
}

// 2. GetTenancyMoveHistory 根据租约ID获取搬迁记录
// @Summary 获取单个租约的搬迁记录
// @Tags MoveHistory
// @Produce json
// @Security BearerAuth
// @Param tenancyId path int true "租约ID"
// @Success 200 {object} models.MoveHistory
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenant-move-history/{tenancyId} [get]
func (c *MoveHistoryController) GetTenancyMoveHistory() {
	tenancyID, ok := parseID(c.Ctx, "tenancyId")
	if !ok {
		return
	}

	var row *models.MoveHistory
	err := c.Container.WithConnection(c.Ctx.Request.Context(), func(tx *gorm.DB) error {
		var err error
		row, err = c.service().Get(tx, tenancyID)
		return err
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, row)
}
