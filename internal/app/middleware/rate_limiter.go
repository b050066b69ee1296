package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"property-http-service/internal/error/code"
	"property-http-service/internal/error/response"
)

// TokenBucket 简单的令牌桶限流器
type TokenBucket struct {
	rate       float64    // 每秒填充的令牌数
	capacity   int        // 桶的容量
	tokens     float64    // 当前令牌数
	lastRefill time.Time  // 上次填充时间
	mu         sync.Mutex // 互斥锁
}

// NewTokenBucket 创建新的令牌桶限流器
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow 尝试获取令牌
func (tb *TokenBucket) Allow() bool {
	return tb.allowAt(time.Now())
}

func (tb *TokenBucket) allowAt(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.lastRefill = now
		// 填充令牌
		tb.tokens += elapsed * tb.rate
		if tb.tokens > float64(tb.capacity) {
			tb.tokens = float64(tb.capacity)
		}
	}

	// 尝试获取令牌
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// idleSince 桶最后一次被使用的时间
func (tb *TokenBucket) idleSince() time.Time {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastRefill
}

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	Rate       float64                   // 每秒允许的请求数
	Burst      int                       // 允许的突发请求数
	ExpiryTime time.Duration             // 空闲多久后回收限流器
	KeyFunc    func(*gin.Context) string // 限流键, 默认为客户端IP
}

// DefaultRateLimiterConfig 默认限流器配置
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       20,
	Burst:      40,
	ExpiryTime: 10 * time.Minute,
}

// limiterSet 按键管理的令牌桶
type limiterSet struct {
	cfg       RateLimiterConfig
	mu        sync.Mutex
	buckets   map[string]*TokenBucket
	lastSweep time.Time
}

func (s *limiterSet) get(key string, now time.Time) *TokenBucket {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 定期回收空闲的限流器
	if now.Sub(s.lastSweep) > s.cfg.ExpiryTime {
		for k, b := range s.buckets {
			if now.Sub(b.idleSince()) > s.cfg.ExpiryTime {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}

	bucket, exists := s.buckets[key]
	if !exists {
		bucket = NewTokenBucket(s.cfg.Rate, s.cfg.Burst)
		s.buckets[key] = bucket
	}
	return bucket
}

// RateLimiter 创建限流中间件
func RateLimiter(config ...RateLimiterConfig) gin.HandlerFunc {
	// 使用默认配置或自定义配置
	cfg := DefaultRateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	// 确保配置有效
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.ExpiryTime <= 0 {
		cfg.ExpiryTime = DefaultRateLimiterConfig.ExpiryTime
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	set := &limiterSet{cfg: cfg, buckets: make(map[string]*TokenBucket), lastSweep: time.Now()}

	return func(c *gin.Context) {
		// 检查是否允许请求
		if !set.get(cfg.KeyFunc(c), time.Now()).Allow() {
			response.Fail(c, code.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// IPRateLimiter 按IP限流
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:  rate,
		Burst: burst,
	})
}
