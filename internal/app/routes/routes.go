package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "property-http-service/docs"
	"property-http-service/internal/app/controllers"
	"property-http-service/internal/app/middleware"
	"property-http-service/internal/domain/services/container"
)

// 资源名, 同时作为缓存键前缀
const (
	resourceProperties  = "properties"
	resourceApartments  = "apartments"
	resourceTenants     = "tenants"
	resourceTenancies   = "tenancies"
	resourceMoveHistory = "tenant-move-history"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(container *container.ServiceContainer) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(container.Logger()))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())

	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, container)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	cfg := container.Config()

	// API 路由根路径
	api := r.Group("/api")
	api.Use(middleware.IPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "health"))
	api.GET("/test-db", controllers.HandleHealthFunc(container, "testDB"))

	// 认证路由
	if container.JWT() != nil {
		api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
	}
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	auth := api.Group("")
	auth.Use(middleware.Authenticate(container.JWT()))

	ttl := container.Config().CacheTTL
	cached := func(resource string) gin.HandlerFunc {
		return middleware.Cache(middleware.CacheConfig{
			Store:      container.Cache(),
			Expiration: ttl,
			Resource:   resource,
			Dependents: []string{resourceMoveHistory},
			Log:        container.Logger(),
		})
	}

	// 物业路由
	propertyGroup := auth.Group("/properties", cached(resourceProperties))
	propertyGroup.GET("", controllers.HandlePropertyFunc(container, "getProperties"))
	propertyGroup.GET("/:id", controllers.HandlePropertyFunc(container, "getProperty"))
	propertyGroup.POST("", controllers.HandlePropertyFunc(container, "createProperty"))
	propertyGroup.PUT("/:id", controllers.HandlePropertyFunc(container, "updateProperty"))
	propertyGroup.DELETE("/:id", controllers.HandlePropertyFunc(container, "deleteProperty"))

	// 房间路由
	apartmentGroup := auth.Group("/apartments", cached(resourceApartments))
	apartmentGroup.GET("", controllers.HandleApartmentFunc(container, "getApartments"))
	apartmentGroup.GET("/:id", controllers.HandleApartmentFunc(container, "getApartment"))
	apartmentGroup.POST("", controllers.HandleApartmentFunc(container, "createApartment"))
	apartmentGroup.PUT("/:id", controllers.HandleApartmentFunc(container, "updateApartment"))
	apartmentGroup.DELETE("/:id", controllers.HandleApartmentFunc(container, "deleteApartment"))

	// 租户路由
	tenantGroup := auth.Group("/tenants", cached(resourceTenants))
	tenantGroup.GET("", controllers.HandleTenantFunc(container, "getTenants"))
	tenantGroup.GET("/:id", controllers.HandleTenantFunc(container, "getTenant"))
	tenantGroup.POST("", controllers.HandleTenantFunc(container, "createTenant"))
	tenantGroup.PUT("/:id", controllers.HandleTenantFunc(container, "updateTenant"))
	tenantGroup.DELETE("/:id", controllers.HandleTenantFunc(container, "deleteTenant"))

	// 租约路由
	tenancyGroup := auth.Group("/tenancies", cached(resourceTenancies))
	tenancyGroup.GET("", controllers.HandleTenancyFunc(container, "getTenancies"))
	tenancyGroup.GET("/:id", controllers.HandleTenancyFunc(container, "getTenancy"))
	tenancyGroup.POST("", controllers.HandleTenancyFunc(container, "createTenancy"))
	tenancyGroup.PUT("/:id", controllers.HandleTenancyFunc(container, "updateTenancy"))
	tenancyGroup.DELETE("/:id", controllers.HandleTenancyFunc(container, "deleteTenancy"))

	// 搬迁记录路由, /move-history 为别名
	for _, path := range []string{"/tenant-move-history", "/move-history"} {
		group := auth.Group(path, cached(resourceMoveHistory))
		group.GET("", controllers.HandleMoveHistoryFunc(container, "getMoveHistory"))
		group.GET("/:tenancyId", controllers.HandleMoveHistoryFunc(container, "getTenancyMoveHistory"))
	}
}
