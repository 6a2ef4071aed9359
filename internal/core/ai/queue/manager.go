package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Handler 實際處理請求的函式，通常是 provider.Generate
type Handler func(ctx context.Context, req *provider.Request) (*provider.Response, error)

// Request 隊列請求
type Request struct {
	Context context.Context
	Request *provider.Request
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Response *provider.Response
	Error    error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 有界隊列與固定數量的 worker
type Manager struct {
	workers   int
	maxSize   int
	handler   Handler
	queue     chan *Request
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	processed int64
	failed    int64
}

// NewManager 創建隊列管理器並啟動 worker
func NewManager(cfg *config.QueueConfig, handler Handler) *Manager {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = 1
	}

	m := &Manager{
		workers: workers,
		maxSize: maxSize,
		handler: handler,
		queue:   make(chan *Request, maxSize),
		done:    make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("AI 請求隊列已啟動",
		zap.Int("workers", workers),
		zap.Int("max_queue_size", maxSize),
	)
	return m
}

// Enqueue 將請求加入隊列，隊列已滿時立即回傳 ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, req *provider.Request) (<-chan Result, error) {
	select {
	case <-m.done:
		return nil, common.ErrQueueClosed
	default:
	}

	queueReq := &Request{
		Context: ctx,
		Request: req,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- queueReq:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.maxSize),
		)
		return queueReq.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, common.ErrQueueClosed
	default:
		return nil, common.ErrQueueFull
	}
}

// Submit 加入隊列並等待結果或 ctx 取消
func (m *Manager) Submit(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	result, err := m.Enqueue(ctx, req)
	if err != nil {
		return nil, err
	}

	select {
	case r := <-result:
		return r.Response, r.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			m.process(req)
		}
	}
}

func (m *Manager) process(req *Request) {
	if err := req.Context.Err(); err != nil {
		atomic.AddInt64(&m.failed, 1)
		req.Result <- Result{Error: err}
		return
	}

	resp, err := m.handler(req.Context, req.Request)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
	} else {
		atomic.AddInt64(&m.processed, 1)
	}
	req.Result <- Result{Response: resp, Error: err}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		FailedCount:    atomic.LoadInt64(&m.failed),
		MaxQueueSize:   m.maxSize,
		Workers:        m.workers,
	}
}

// Close 停止 worker，尚未處理的請求會收到 ErrQueueClosed
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.wg.Wait()

		for {
			select {
			case req := <-m.queue:
				req.Result <- Result{Error: common.ErrQueueClosed}
			default:
				common.LogInfo("AI 請求隊列已關閉",
					zap.Int64("processed", atomic.LoadInt64(&m.processed)),
					zap.Int64("failed", atomic.LoadInt64(&m.failed)),
				)
				return
			}
		}
	})
}
