package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"beersmith-bridge/internal/infrastructure/config"
	"beersmith-bridge/internal/pkg/common"
)

// defaultDedupWindow 未設定 dedup_window 時使用
const defaultDedupWindow = time.Second

// Deduplicator 記錄進行中與最近成功的請求指紋
type Deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	inflight map[string]struct{}
	done     map[string]time.Time
	now      func() time.Time
}

// NewDeduplicator 創建去重器；window 內重送相同內容會被拒絕
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &Deduplicator{
		window:   window,
		inflight: make(map[string]struct{}),
		done:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// Begin 登記請求；相同指紋仍在處理或剛完成時回傳 false
func (d *Deduplicator) Begin(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, t := range d.done {
		if now.Sub(t) > d.window {
			delete(d.done, k)
		}
	}

	if _, busy := d.inflight[fingerprint]; busy {
		return false
	}
	if _, recent := d.done[fingerprint]; recent {
		return false
	}
	d.inflight[fingerprint] = struct{}{}
	return true
}

// End 結束請求；只有成功的請求會記入時間窗，失敗的可以立即重送
func (d *Deduplicator) End(fingerprint string, succeeded bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.inflight, fingerprint)
	if succeeded {
		d.done[fingerprint] = d.now()
	}
}

// fingerprint 方法、路徑與請求體雜湊
func fingerprint(c *gin.Context) (string, error) {
	key := c.Request.Method + ":" + c.Request.URL.RequestURI()
	if c.Request.Body == nil {
		return key, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	hash := sha256.Sum256(body)
	return key + ":" + hex.EncodeToString(hash[:]), nil
}

// Deduplication 請求去重中間件，時間窗取自 config 的 dedup_window
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	var window time.Duration
	if cfg != nil {
		window = cfg.DedupWindow
	}
	dedup := NewDeduplicator(window)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		fp, err := fingerprint(c)
		if err != nil {
			common.LogError("Failed to read request body", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrInvalidRequest.Code,
				Message: common.ErrInvalidRequest.Message,
				Details: err.Error(),
			})
			return
		}

		if !dedup.Begin(fp) {
			common.LogWarn("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrTooManyRequests.Code,
				Message: "相同的請求已在處理中",
			})
			return
		}

		c.Next()
		dedup.End(fp, c.Writer.Status() < http.StatusBadRequest)
	}
}
