// Package recipe 在資料庫快照之上提供原料查詢、食譜驗證、匯出與釀造建議
package recipe

import (
	"context"
	"errors"

	"beersmith-bridge/internal/core/cache"
	"beersmith-bridge/internal/core/catalog"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 服務基礎結構
type Service struct {
	store   *catalog.Store
	matcher *match.Matcher
	cache   cache.Store
}

// NewService 創建新的服務；cacheStore 可為 nil
func NewService(store *catalog.Store, matcher *match.Matcher, cacheStore cache.Store) *Service {
	return &Service{
		store:   store,
		matcher: matcher,
		cache:   cacheStore,
	}
}

// Matcher 使用中的比對器
func (s *Service) Matcher() *match.Matcher {
	return s.matcher
}

// snapshot 目前快照
func (s *Service) snapshot() *catalog.Snapshot {
	return s.store.Snapshot()
}

// getFromCache 從緩存獲取數據並解碼；沒有快取或未命中時回傳 false
func (s *Service) getFromCache(ctx context.Context, key string, v interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取快取失敗", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := common.ParseJSON(raw, v); err != nil {
		common.LogWarn("快取內容無法解析", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// setToCache 將數據存入緩存，失敗只記錄
func (s *Service) setToCache(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := common.ToJSON(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		common.LogWarn("寫入快取失敗", zap.String("key", key), zap.Error(err))
	}
}
