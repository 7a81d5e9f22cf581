// Package cache 快取比對結果；鍵包含快照世代，資料重新載入後舊結果自然失效
package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"beersmith-bridge/internal/infrastructure/config"
	"beersmith-bridge/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 字串快取
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// New 依設定建立快取；有 Redis 位址時使用 Redis，停用時回傳 nil
func New(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}
	if cfg.Cache.RedisAddr != "" {
		svc, err := NewService(&cfg.Cache)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	return NewManager(cfg), nil
}

// Key 產生快取鍵
func Key(generation uint64, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("match:%d:%s", generation, hex.EncodeToString(hash[:]))
}

// CacheManager 記憶體 LRU 快取；項目過期後在讀取或定期掃描時移除
type CacheManager struct {
	ttl     time.Duration
	maxSize int

	mu    sync.Mutex
	order *list.List // 前端為最近使用
	items map[string]*list.Element

	hits, misses, evictions int64

	stop chan struct{}
	once sync.Once
	now  func() time.Time
}

type entry struct {
	key       string
	value     string
	expiresAt time.Time
}

// NewManager 建立記憶體快取；快取停用時回傳 nil
func NewManager(cfg *config.Config) *CacheManager {
	if !cfg.Cache.Enabled {
		return nil
	}

	m := &CacheManager{
		ttl:     cfg.Cache.TTL,
		maxSize: cfg.Cache.MaxSize,
		order:   list.New(),
		items:   make(map[string]*list.Element),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	if interval := cfg.Cache.CleanupInterval; interval > 0 {
		go m.sweepEvery(interval)
	}

	common.LogInfo("記憶體快取已啟用",
		zap.Int("max_size", m.maxSize),
		zap.Duration("ttl", m.ttl),
	)
	return m
}

// Get 取得快取值，並將項目移到最近使用
func (m *CacheManager) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if ok && m.expired(el) {
		m.remove(el)
		ok = false
	}
	if !ok {
		m.misses++
		common.LogCacheMiss("match", key)
		return "", common.ErrCacheMiss
	}

	m.order.MoveToFront(el)
	m.hits++
	common.LogCacheHit("match", key)
	return el.Value.(*entry).value, nil
}

// Set 寫入快取；容量已滿時淘汰最久未使用的項目
func (m *CacheManager) Set(_ context.Context, key, value string) error {
	if m.maxSize <= 0 {
		return common.ErrCacheFull
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expires := m.now().Add(m.ttl)
	if el, ok := m.items[key]; ok {
		e := el.Value.(*entry)
		e.value, e.expiresAt = value, expires
		m.order.MoveToFront(el)
		return nil
	}

	for m.order.Len() >= m.maxSize {
		m.remove(m.order.Back())
	}
	m.items[key] = m.order.PushFront(&entry{key: key, value: value, expiresAt: expires})
	return nil
}

func (m *CacheManager) expired(el *list.Element) bool {
	return m.now().After(el.Value.(*entry).expiresAt)
}

// remove 呼叫者需持有鎖
func (m *CacheManager) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.items, el.Value.(*entry).key)
	m.evictions++
}

func (m *CacheManager) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := m.sweep(); n > 0 {
				common.LogDebug("清除過期快取", zap.Int("count", n))
			}
		case <-m.stop:
			return
		}
	}
}

// sweep 移除所有過期項目，回傳移除數
func (m *CacheManager) sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for el := m.order.Back(); el != nil; {
		prev := el.Prev()
		if m.expired(el) {
			m.remove(el)
			n++
		}
		el = prev
	}
	return n
}

// GetStats 快取統計
func (m *CacheManager) GetStats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ratio := 0.0
	if total := m.hits + m.misses; total > 0 {
		ratio = float64(m.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      m.order.Len(),
		"max_size":  m.maxSize,
		"hits":      m.hits,
		"misses":    m.misses,
		"evictions": m.evictions,
		"hit_ratio": ratio,
	}
}

// Close 停止背景清理並清空快取，可重複呼叫
func (m *CacheManager) Close() error {
	m.once.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.order.Init()
	m.items = make(map[string]*list.Element)
	return nil
}
