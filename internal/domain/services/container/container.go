package container

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"property-http-service/internal/domain/services"
	"property-http-service/internal/infrastructure/cache"
	"property-http-service/internal/infrastructure/config"
	"property-http-service/internal/infrastructure/database"
	"property-http-service/internal/infrastructure/events"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	pool   *database.ConnectionPool
	config *config.Config
	log    *zap.Logger

	// 可选组件
	publisher events.Publisher
	cache     cache.Store

	// 基础服务
	jwtService services.InterfaceJWTService

	// 业务服务
	propertyService    services.InterfacePropertyService
	apartmentService   services.InterfaceApartmentService
	tenantService      services.InterfaceTenantService
	tenancyService     services.InterfaceTenancyService
	moveHistoryService services.InterfaceMoveHistoryService

	mu sync.RWMutex
}

// Option 可选组件
type Option func(*ServiceContainer)

// WithPublisher 设置变更事件发布者
func WithPublisher(p events.Publisher) Option {
	return func(c *ServiceContainer) { c.publisher = p }
}

// WithCache 设置响应缓存
func WithCache(s cache.Store) Option {
	return func(c *ServiceContainer) { c.cache = s }
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(pool *database.ConnectionPool, cfg *config.Config, log *zap.Logger, opts ...Option) *ServiceContainer {
	if pool == nil {
		panic("数据库连接为空")
	}
	if cfg == nil {
		panic("配置为空")
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &ServiceContainer{
		pool:      pool,
		config:    cfg,
		log:       log,
		publisher: events.NopPublisher{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.initializeServices()
	return c
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config.AuthEnabled() {
		c.jwtService = services.NewJWTService(c.config)
	}

	c.propertyService = services.NewPropertyService()
	c.apartmentService = services.NewApartmentService()
	c.tenantService = services.NewTenantService()
	c.tenancyService = services.NewTenancyService()
	c.moveHistoryService = services.NewMoveHistoryService()
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "pool":
		return c.pool
	case "jwt":
		return c.jwtService
	case "cache":
		return c.cache
	case "events":
		return c.publisher
	case "property":
		return c.propertyService
	case "apartment":
		return c.apartmentService
	case "tenant":
		return c.tenantService
	case "tenancy":
		return c.tenancyService
	case "move_history":
		return c.moveHistoryService
	default:
		return nil
	}
}

// Config 获取配置
func (c *ServiceContainer) Config() *config.Config {
	return c.config
}

// Logger 获取日志
func (c *ServiceContainer) Logger() *zap.Logger {
	return c.log
}

// Pool 获取数据库连接池
func (c *ServiceContainer) Pool() *database.ConnectionPool {
	return c.pool
}

// Cache 获取响应缓存, 未启用时为 nil
func (c *ServiceContainer) Cache() cache.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache
}

// JWT 获取鉴权服务, 未启用时为 nil
func (c *ServiceContainer) JWT() services.InterfaceJWTService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jwtService
}

// WithConnection 借出一个数据库连接执行 fn
func (c *ServiceContainer) WithConnection(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.pool.WithConnection(ctx, fn)
}

// Publish 发布变更事件, 失败只记录日志
func (c *ServiceContainer) Publish(ctx context.Context, event events.ChangeEvent) {
	c.mu.RLock()
	publisher := c.publisher
	c.mu.RUnlock()

	if err := publisher.Publish(ctx, event); err != nil {
		c.log.Warn("publish change event failed",
			zap.String("entity", event.Entity),
			zap.String("action", event.Action),
			zap.Uint("id", event.ID),
			zap.Error(err),
		)
	}
}

// Close 释放可选组件
func (c *ServiceContainer) Close() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.publisher.Close()
}
