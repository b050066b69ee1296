package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"property-http-service/internal/domain/services/container"
	"property-http-service/internal/error/code"
	"property-http-service/internal/error/response"
	"property-http-service/internal/infrastructure/database"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Container *container.ServiceContainer
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{Container: container}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	controller := NewHealthCheckController(container)
	return func(ctx *gin.Context) {
		switch method {
		case "ping":
			controller.Ping(ctx)
		case "health":
			controller.Health(ctx)
		case "testDB":
			controller.TestDB(ctx)
		default:
			unknownMethod(ctx)
		}
	}
}

// Ping 健康检查端点
// @Summary 存活检查
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Health 数据库健康检查
// @Summary 数据库健康检查
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func (h *HealthCheckController) Health(c *gin.Context) {
	pool := h.Container.Pool()
	if err := pool.HealthCheck(c.Request.Context()); err != nil {
		response.FailWithMessage(c, code.ErrDatabaseUnavailable, err.Error())
		return
	}

	stats, _ := pool.Stats()
	response.Success(c, gin.H{
		"status":   "healthy",
		"database": "up",
		"pool":     stats,
	})
}

// TestDB 读取数据库时钟
// @Summary 数据库连通性测试
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /test-db [get]
func (h *HealthCheckController) TestDB(c *gin.Context) {
	var now string
	err := h.Container.WithConnection(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		now, err = database.CurrentTime(tx)
		return err
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"res":     []gin.H{{"current_time": now}},
	})
}
