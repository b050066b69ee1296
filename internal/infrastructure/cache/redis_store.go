package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"property-http-service/internal/infrastructure/config"
)

// RedisStore handles Redis operations
type RedisStore struct {
	Client *redis.Client

	// 递增失败的资源, 重试成功之前读取该资源的代数返回错误
	mu      sync.Mutex
	pending map[string]bool
}

func generationKey(resource string) string {
	return "cachegen:" + resource
}

// NewRedisStore creates a Redis store and checks the connection
func NewRedisStore(ctx context.Context, cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.GetRedisAddr(), err)
	}
	return &RedisStore{Client: client}, nil
}

// Get gets a value from Redis by key
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

// DeletePrefix deletes every key starting with prefix
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	iter := s.Client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.Client.Del(ctx, keys...).Err()
}

// Generation reads the resource generation, retrying a failed Bump first
func (s *RedisStore) Generation(ctx context.Context, resource string) (int64, error) {
	s.mu.Lock()
	pending := s.pending[resource]
	s.mu.Unlock()
	if pending {
		if err := s.Bump(ctx, resource); err != nil {
			return 0, fmt.Errorf("pending invalidation of %s: %w", resource, err)
		}
	}

	gen, err := s.Client.Get(ctx, generationKey(resource)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Bump increments the resource generation
func (s *RedisStore) Bump(ctx context.Context, resource string) error {
	err := s.Client.Incr(ctx, generationKey(resource)).Err()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.pending == nil {
			s.pending = make(map[string]bool)
		}
		s.pending[resource] = true
		return err
	}
	delete(s.pending, resource)
	return nil
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.Client.Close()
}
