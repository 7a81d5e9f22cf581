package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"beersmith-bridge/internal/core/mutation"
	"beersmith-bridge/internal/infrastructure/config"
	"beersmith-bridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingApplier 記錄同時執行的數量
type countingApplier struct {
	active  int32
	maxSeen int32
	calls   int32
	delay   time.Duration
	err     error
}

func (a *countingApplier) Apply(u mutation.Update) (*mutation.Result, error) {
	n := atomic.AddInt32(&a.active, 1)
	defer atomic.AddInt32(&a.active, -1)
	for {
		old := atomic.LoadInt32(&a.maxSeen)
		if n <= old || atomic.CompareAndSwapInt32(&a.maxSeen, old, n) {
			break
		}
	}
	atomic.AddInt32(&a.calls, 1)
	time.Sleep(a.delay)
	if a.err != nil {
		return nil, a.err
	}
	return &mutation.Result{Kind: u.Kind, Name: u.Name}, nil
}

func testConfig(size int) *config.Config {
	cfg := &config.Config{}
	cfg.Queue.MaxSize = size
	return cfg
}

func TestUpdatesRunOneAtATime(t *testing.T) {
	app := &countingApplier{delay: 2 * time.Millisecond}
	m := NewManager(testConfig(16), app)
	m.Start()
	defer m.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := m.Submit(context.Background(), mutation.Update{Kind: "hop", Name: "Cascade"})
			assert.NoError(t, err)
			assert.Equal(t, "Cascade", res.Name)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(8), atomic.LoadInt32(&app.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&app.maxSeen))
	st := m.GetQueueStatus()
	assert.Equal(t, 8, st.ProcessedCount)
	assert.Equal(t, 1, st.Workers)
	assert.True(t, st.Running)
}

func TestErrorsArePassedThrough(t *testing.T) {
	m := NewManager(testConfig(4), &countingApplier{err: common.ErrFieldNotAllowed})
	m.Start()
	defer m.Close()

	_, err := m.Submit(context.Background(), mutation.Update{Kind: "hop", Name: "Cascade"})
	assert.True(t, errors.Is(err, common.ErrFieldNotAllowed))
	assert.Equal(t, 1, m.GetQueueStatus().FailedCount)
}

func TestQueueFullAndClosed(t *testing.T) {
	// 未啟動工作者，請求留在隊列中
	m := NewManager(testConfig(1), &countingApplier{})
	_, err := m.Enqueue(context.Background(), mutation.Update{Name: "a"})
	require.NoError(t, err)

	_, err = m.Enqueue(context.Background(), mutation.Update{Name: "b"})
	assert.True(t, errors.Is(err, common.ErrQueueFull))

	m.Close()
	_, err = m.Enqueue(context.Background(), mutation.Update{Name: "c"})
	assert.True(t, errors.Is(err, common.ErrQueueClosed))
}

func TestSubmitTimeout(t *testing.T) {
	m := NewManager(testConfig(4), &countingApplier{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := m.Submit(ctx, mutation.Update{Name: "slow"})
	assert.True(t, errors.Is(err, common.ErrRequestTimeout))
}

func TestCloseDrainsPending(t *testing.T) {
	m := NewManager(testConfig(4), &countingApplier{})
	ch, err := m.Enqueue(context.Background(), mutation.Update{Name: "pending"})
	require.NoError(t, err)

	m.Start()
	m.Close()

	select {
	case res := <-ch:
		// 工作者可能在關閉前處理完畢，也可能在關閉時才通知
		if res.Error != nil {
			assert.True(t, errors.Is(res.Error, common.ErrQueueClosed))
		}
	case <-time.After(time.Second):
		t.Fatal("pending request never answered")
	}
}
