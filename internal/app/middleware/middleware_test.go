package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"property-http-service/internal/domain/services"
	"property-http-service/internal/error/apperror"
	"property-http-service/internal/infrastructure/cache"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(1, 2)
	start := tb.lastRefill

	assert.True(t, tb.allowAt(start))
	assert.True(t, tb.allowAt(start))
	assert.False(t, tb.allowAt(start))

	assert.True(t, tb.allowAt(start.Add(time.Second)))
	assert.False(t, tb.allowAt(start.Add(time.Second)))

	// 长时间空闲也不会超过容量
	later := start.Add(time.Hour)
	assert.True(t, tb.allowAt(later))
	assert.True(t, tb.allowAt(later))
	assert.False(t, tb.allowAt(later))
}

func TestRateLimiterPerClient(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(RateLimiterConfig{
		Rate:    0.001,
		Burst:   2,
		KeyFunc: func(c *gin.Context) string { return c.GetHeader("X-Client") },
	}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "X-Client", "a").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/", "X-Client", "a").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "X-Client", "b").Code)
}

func TestLimiterSetSweepsIdleBuckets(t *testing.T) {
	now := time.Now()
	set := &limiterSet{
		cfg:       RateLimiterConfig{Rate: 1, Burst: 1, ExpiryTime: time.Minute},
		buckets:   map[string]*TokenBucket{},
		lastSweep: now,
	}
	set.get("idle", now)
	set.get("busy", now.Add(90*time.Second))
	set.get("busy", now.Add(2*time.Minute))

	_, idle := set.buckets["idle"]
	assert.False(t, idle)
	assert.Contains(t, set.buckets, "busy")
}

func cachedRouter(store cache.Store, hits *int) *gin.Engine {
	r := gin.New()
	group := r.Group("/things", Cache(CacheConfig{
		Store:      store,
		Expiration: time.Minute,
		Resource:   "things",
		Dependents: []string{"reports"},
	}))
	group.GET("", func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"hits": *hits})
	})
	group.POST("", func(c *gin.Context) { c.Status(http.StatusCreated) })
	group.PUT("", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	return r
}

func TestCacheServesRepeatedGets(t *testing.T) {
	store := cache.NewMemoryStore()
	hits := 0
	r := cachedRouter(store, &hits)

	first := serve(r, http.MethodGet, "/things?b=2&a=1")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := serve(r, http.MethodGet, "/things?a=1&b=2")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, hits)

	// 不同的查询参数使用不同的缓存键
	serve(r, http.MethodGet, "/things?a=2")
	assert.Equal(t, 2, hits)
}

func TestCachePurgedOnlyBySuccessfulWrites(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, CacheKeyPrefix("reports")+"/reports?", []byte(`[]`), time.Minute))
	hits := 0
	r := cachedRouter(store, &hits)

	serve(r, http.MethodGet, "/things")
	require.Equal(t, 2, store.Len())

	serve(r, http.MethodPut, "/things")
	assert.Equal(t, 2, store.Len())

	serve(r, http.MethodPost, "/things")
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, "MISS", serve(r, http.MethodGet, "/things").Header().Get("X-Cache"))
}

func TestCacheWithoutStorePassesThrough(t *testing.T) {
	hits := 0
	r := cachedRouter(nil, &hits)

	serve(r, http.MethodGet, "/things")
	w := serve(r, http.MethodGet, "/things")
	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestCacheDropsResponseReadBeforeConcurrentWrite(t *testing.T) {
	store := cache.NewMemoryStore()
	var mu sync.Mutex
	value := "old"
	read := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	r := gin.New()
	group := r.Group("/things", Cache(CacheConfig{Store: store, Expiration: time.Minute, Resource: "things"}))
	group.GET("", func(c *gin.Context) {
		mu.Lock()
		v := value
		mu.Unlock()
		// 只有第一次读请求在读到数据后等待
		once.Do(func() {
			close(read)
			<-release
		})
		c.JSON(http.StatusOK, gin.H{"value": v})
	})
	group.PUT("", func(c *gin.Context) {
		mu.Lock()
		value = "new"
		mu.Unlock()
		c.Status(http.StatusOK)
	})

	// 读请求读到旧值后, 在写入缓存之前发生一次写操作
	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- serve(r, http.MethodGet, "/things") }()
	<-read
	require.Equal(t, http.StatusOK, serve(r, http.MethodPut, "/things").Code)
	close(release)
	stale := <-done
	assert.JSONEq(t, `{"value":"old"}`, stale.Body.String())

	w := serve(r, http.MethodGet, "/things")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"value":"new"}`, w.Body.String())
	w = serve(r, http.MethodGet, "/things")
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"value":"new"}`, w.Body.String())
}

// unreliableStore 代数递增失败后, 读取代数也失败, 直到递增成功
type unreliableStore struct {
	*cache.MemoryStore
	down    bool
	pending bool
}

func (s *unreliableStore) Generation(ctx context.Context, resource string) (int64, error) {
	if s.pending {
		if err := s.Bump(ctx, resource); err != nil {
			return 0, err
		}
	}
	return s.MemoryStore.Generation(ctx, resource)
}

func (s *unreliableStore) Bump(ctx context.Context, resource string) error {
	if s.down {
		s.pending = true
		return errors.New("connection refused")
	}
	s.pending = false
	return s.MemoryStore.Bump(ctx, resource)
}

func (s *unreliableStore) DeletePrefix(ctx context.Context, prefix string) error {
	if s.down {
		return errors.New("connection refused")
	}
	return s.MemoryStore.DeletePrefix(ctx, prefix)
}

func TestCacheBypassedWhileInvalidationPending(t *testing.T) {
	store := &unreliableStore{MemoryStore: cache.NewMemoryStore()}
	core, logs := observer.New(zapcore.WarnLevel)
	hits := 0

	r := gin.New()
	group := r.Group("/things", Cache(CacheConfig{Store: store, Expiration: time.Minute, Resource: "things", Log: zap.New(core)}))
	group.GET("", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	group.POST("", func(c *gin.Context) { c.Status(http.StatusCreated) })

	serve(r, http.MethodGet, "/things")
	require.Equal(t, "HIT", serve(r, http.MethodGet, "/things").Header().Get("X-Cache"))

	store.down = true
	require.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/things").Code)
	assert.Equal(t, 1, logs.FilterMessage("cache invalidation failed").Len())
	store.down = false

	// 读请求先补做未完成的失效, 不会命中旧条目
	w := serve(r, http.MethodGet, "/things")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"hits":2}`, w.Body.String())
	assert.Equal(t, "HIT", serve(r, http.MethodGet, "/things").Header().Get("X-Cache"))

	store.down = true
	store.pending = true
	w = serve(r, http.MethodGet, "/things")
	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"hits":3}`, w.Body.String())
}

type stubJWT struct {
	services.InterfaceJWTService
	valid string
}

func (s stubJWT) ValidateToken(token string) (*services.JWTClaims, error) {
	if token != s.valid {
		return nil, errors.New("invalid token")
	}
	return &services.JWTClaims{Username: "admin"}, nil
}

func TestAuthenticate(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate(stubJWT{valid: "good"}))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("username")) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/", "Authorization", "Bearer bad").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/", "Authorization", "good").Code)

	w := serve(r, http.MethodGet, "/", "Authorization", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}

func TestAuthenticateDisabled(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/").Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) {
		_ = c.Error(apperror.Store("list things", errors.New("disk full")))
		c.Status(http.StatusInternalServerError)
	})

	w := serve(r, http.MethodGet, "/ok", RequestIDHeader, "req-1")
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))

	w = serve(r, http.MethodGet, "/missing")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	serve(r, http.MethodGet, "/broken")

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "list things: disk full", entries[2].ContextMap()["error"])
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
