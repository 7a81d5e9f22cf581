// Package queue 以單一工作者依序執行寫入命令
package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"beersmith-bridge/internal/core/mutation"
	"beersmith-bridge/internal/infrastructure/config"
	"beersmith-bridge/internal/pkg/common"

	"go.uber.org/zap"
)

// Applier 執行寫入命令
type Applier interface {
	Apply(u mutation.Update) (*mutation.Result, error)
}

// Request 隊列請求
type Request struct {
	Context context.Context
	Update  mutation.Update
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Result *mutation.Result
	Error  error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int  `json:"queue_length"`
	ProcessedCount int  `json:"processed_count"`
	FailedCount    int  `json:"failed_count"`
	MaxQueueSize   int  `json:"max_queue_size"`
	Workers        int  `json:"workers"`
	Running        bool `json:"running"`
}

// Manager 隊列管理器；同一時間只有一個寫入在執行
type Manager struct {
	maxSize   int
	applier   Applier
	queue     chan *Request
	done      chan struct{}
	processed int64
	failed    int64
	running   int32
	startOnce sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewManager 創建新的隊列管理器
func NewManager(cfg *config.Config, applier Applier) *Manager {
	return &Manager{
		maxSize: cfg.Queue.MaxSize,
		applier: applier,
		queue:   make(chan *Request, cfg.Queue.MaxSize),
		done:    make(chan struct{}),
	}
}

// Start 啟動工作者
func (m *Manager) Start() {
	m.startOnce.Do(func() {
		atomic.StoreInt32(&m.running, 1)
		m.wg.Add(1)
		go m.worker()
		common.LogInfo("寫入隊列已啟動", zap.Int("max_queue_size", m.maxSize))
	})
}

// Enqueue 將請求加入隊列
func (m *Manager) Enqueue(ctx context.Context, u mutation.Update) (chan Result, error) {
	select {
	case <-m.done:
		return nil, common.ErrQueueClosed
	default:
	}

	if len(m.queue) >= m.maxSize {
		return nil, common.ErrQueueFull
	}

	req := &Request{
		Context: ctx,
		Update:  u,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("寫入請求已排入",
			zap.String("kind", string(u.Kind)),
			zap.String("name", u.Name),
			zap.Int("queue_length", len(m.queue)),
		)
		return req.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, common.ErrQueueClosed
	}
}

// Submit 排入並等待結果；ctx 只限制等待時間，已開始的寫入會執行完畢
func (m *Manager) Submit(ctx context.Context, u mutation.Update) (*mutation.Result, error) {
	ch, err := m.Enqueue(ctx, u)
	if err != nil {
		return nil, err
	}
	select {
	case res := <-ch:
		return res.Result, res.Error
	case <-ctx.Done():
		return nil, common.Wrapf(common.ErrRequestTimeout, "waiting for update of %s %q: %v", u.Kind, u.Name, ctx.Err())
	}
}

func (m *Manager) worker() {
	defer m.wg.Done()
	defer atomic.StoreInt32(&m.running, 0)

	for {
		select {
		case <-m.done:
			m.drain()
			return
		case req := <-m.queue:
			m.handle(req)
		}
	}
}

func (m *Manager) handle(req *Request) {
	// 等待者已放棄的請求不再執行
	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		return
	}

	res, err := m.applier.Apply(req.Update)
	atomic.AddInt64(&m.processed, 1)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
	}
	req.Result <- Result{Result: res, Error: err}
}

// drain 關閉時通知仍在隊列中的請求
func (m *Manager) drain() {
	for {
		select {
		case req := <-m.queue:
			req.Result <- Result{Error: common.ErrQueueClosed}
		default:
			return
		}
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		FailedCount:    int(atomic.LoadInt64(&m.failed)),
		MaxQueueSize:   m.maxSize,
		Workers:        1,
		Running:        atomic.LoadInt32(&m.running) == 1,
	}
}

// Close 關閉隊列管理器並等待進行中的寫入完成
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
	common.LogInfo("寫入隊列已關閉", zap.Int64("processed", atomic.LoadInt64(&m.processed)))
}
