// Package cache 提供响应缓存的存储后端
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store 响应缓存存储
//
// 每个资源有一个单调递增的代数, 缓存键包含读取时的代数.
// 写操作递增代数后, 旧代数下的条目(包括与写操作并发写入的条目)不再可达.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
	// Generation 返回资源的当前代数
	Generation(ctx context.Context, resource string) (int64, error)
	// Bump 递增资源的代数
	Bump(ctx context.Context, resource string) error
}

// 缓存条目
type entry struct {
	content    []byte
	expiration time.Time
}

// MemoryStore 进程内缓存, 未配置 Redis 时使用
type MemoryStore struct {
	mu          sync.RWMutex
	items       map[string]entry
	generations map[string]int64
	now         func() time.Time
}

// NewMemoryStore 创建进程内缓存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]entry), generations: make(map[string]int64), now: time.Now}
}

// Generation 返回资源的当前代数
func (m *MemoryStore) Generation(_ context.Context, resource string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generations[resource], nil
}

// Bump 递增资源的代数
func (m *MemoryStore) Bump(_ context.Context, resource string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[resource]++
	return nil
}

// Get 读取未过期的条目
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, found := m.items[key]
	m.mu.RUnlock()

	if !found {
		return nil, false, nil
	}
	if !e.expiration.After(m.now()) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.content, true, nil
}

// Set 写入条目, 同时清理已过期的条目
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.items {
		if !e.expiration.After(now) {
			delete(m.items, k)
		}
	}
	m.items[key] = entry{content: value, expiration: now.Add(ttl)}
	return nil
}

// DeletePrefix 根据前缀清除缓存
func (m *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	return nil
}

// Len 当前条目数
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
