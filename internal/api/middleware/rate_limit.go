package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"beersmith-bridge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bucket 單一用戶端的令牌桶
type bucket struct {
	tokens float64
	last   time.Time
}

// RateLimiter 依用戶端 IP 分別計算的令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	capacity float64
	rate     float64 // 每秒補充的令牌數
	idle     time.Duration
	buckets  map[string]*bucket
	now      func() time.Time
}

// NewRateLimiter 創建新的限流器；每個用戶端在 window 內最多 requests 次
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		idle:     2 * window,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
	}
}

// Allow 檢查用戶端是否還有令牌；拒絕時回傳需等待的時間
func (rl *RateLimiter) Allow(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[client]
	if !ok {
		b = &bucket{tokens: rl.capacity, last: now}
		rl.buckets[client] = b
		rl.evictIdle(now)
	}

	b.tokens = math.Min(rl.capacity, b.tokens+now.Sub(b.last).Seconds()*rl.rate)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := time.Duration((1 - b.tokens) / rl.rate * float64(time.Second))
	return false, wait
}

// evictIdle 移除閒置過久的用戶端；呼叫者需持有鎖
func (rl *RateLimiter) evictIdle(now time.Time) {
	for k, b := range rl.buckets {
		if now.Sub(b.last) > rl.idle {
			delete(rl.buckets, k)
		}
	}
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(requests, window)

	return func(c *gin.Context) {
		ok, wait := limiter.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}

		retry := int(math.Ceil(wait.Seconds()))
		common.LogWarn("Rate limit exceeded",
			zap.String("ip", c.ClientIP()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("retry_after", retry),
		)
		c.Header("Retry-After", fmt.Sprintf("%d", retry))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
			Code:    common.ErrTooManyRequests.Code,
			Message: common.ErrTooManyRequests.Message,
			Details: fmt.Sprintf("retry after %ds", retry),
		})
	}
}
