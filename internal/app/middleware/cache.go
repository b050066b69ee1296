package middleware

import (
	"bytes"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"property-http-service/internal/infrastructure/cache"
)

// CacheKeyPrefix 资源缓存键前缀
func CacheKeyPrefix(resource string) string {
	return "cache:" + resource + ":"
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Store      cache.Store
	Expiration time.Duration // 缓存过期时间
	Resource   string        // 资源名, 决定缓存键前缀
	Dependents []string      // 写入成功后一并清除的其他资源
	Log        *zap.Logger
}

// 缓存键: 资源代数、路径加排序后的查询参数
func cacheKey(resource string, generation int64, c *gin.Context) string {
	queryParams := c.Request.URL.Query()
	queryKeys := make([]string, 0, len(queryParams))
	for key := range queryParams {
		queryKeys = append(queryKeys, key)
	}
	sort.Strings(queryKeys)

	var b strings.Builder
	b.WriteString(CacheKeyPrefix(resource))
	b.WriteString("g" + strconv.FormatInt(generation, 10) + ":")
	b.WriteString(c.Request.URL.Path)
	b.WriteString("?")
	for _, key := range queryKeys {
		values := queryParams[key]
		sort.Strings(values)
		for _, value := range values {
			b.WriteString(key + "=" + value + "&")
		}
	}
	return b.String()
}

// Cache 创建响应缓存中间件: GET 命中直接返回, 写操作成功后清除相关资源的缓存
func Cache(cfg CacheConfig) gin.HandlerFunc {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if cfg.Store == nil {
			c.Next()
			return
		}

		if c.Request.Method != http.MethodGet {
			c.Next()
			if status := c.Writer.Status(); status >= http.StatusOK && status < http.StatusMultipleChoices {
				purge(c, cfg)
			}
			return
		}

		ctx := c.Request.Context()

		// 代数必须在读库之前取得, 之后的写操作会使本次写入的条目失效
		generation, err := cfg.Store.Generation(ctx, cfg.Resource)
		if err != nil {
			cfg.Log.Warn("cache generation unavailable, bypassing cache", zap.String("resource", cfg.Resource), zap.Error(err))
			c.Next()
			return
		}
		key := cacheKey(cfg.Resource, generation, c)

		// 尝试从缓存获取响应
		content, found, err := cfg.Store.Get(ctx, key)
		if err != nil {
			cfg.Log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		if found {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", content)
			c.Abort()
			return
		}

		// 缓存未命中，捕获响应
		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		// 如果状态码为200且期间没有写操作，缓存响应
		if writer.Status() != http.StatusOK {
			return
		}
		if current, err := cfg.Store.Generation(ctx, cfg.Resource); err != nil || current != generation {
			return
		}
		if err := cfg.Store.Set(ctx, key, writer.body.Bytes(), cfg.Expiration); err != nil {
			cfg.Log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// purge 递增资源代数使旧条目不可达, 然后清理旧条目
func purge(c *gin.Context, cfg CacheConfig) {
	ctx := c.Request.Context()
	for _, resource := range append([]string{cfg.Resource}, cfg.Dependents...) {
		if err := cfg.Store.Bump(ctx, resource); err != nil {
			cfg.Log.Error("cache invalidation failed", zap.String("resource", resource), zap.Error(err))
		}
		if err := cfg.Store.DeletePrefix(ctx, CacheKeyPrefix(resource)); err != nil {
			cfg.Log.Warn("cache purge failed", zap.String("resource", resource), zap.Error(err))
		}
	}
}

// 自定义响应写入器，用于捕获响应内容
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 重写Write方法，同时写入原始响应和缓冲区
func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// WriteString 重写WriteString方法，同时写入原始响应和缓冲区
func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
