package linebot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"translate_bot/internal/linebot/models"
	"translate_bot/internal/logger"
)

// EventHandlerFunc 单个事件的处理函数
type EventHandlerFunc func(ctx context.Context, event models.Event) error

// EventTask 事件任务
type EventTask struct {
	Ctx     context.Context
	Event   models.Event
	Handler EventHandlerFunc
	result  chan<- error
}

// WorkerPool 事件处理工作池
type WorkerPool struct {
	mu        sync.RWMutex
	closed    bool
	taskQueue chan EventTask
	wg        sync.WaitGroup
	workers   int
}

// PoolStats 工作池运行状态
type PoolStats struct {
	Workers       int `json:"workers"`
	QueueLength   int `json:"queue_length"`
	QueueCapacity int `json:"queue_capacity"`
}

// ErrPoolClosed 工作池已关闭
var ErrPoolClosed = errors.New("worker pool is closed")

// NewWorkerPool 创建工作池
// workers: worker 协程数量
// queueSize: 任务队列大小
func NewWorkerPool(workers int, queueSize int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	pool := &WorkerPool{
		taskQueue: make(chan EventTask, queueSize),
		workers:   workers,
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	logger.L().Infof("Worker pool started with %d workers, queue size %d", workers, queueSize)
	return pool
}

// worker 工作协程
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	logger.L().Debugf("Worker %d started", id)

	for task := range p.taskQueue {
		task.result <- p.run(id, task)
	}

	logger.L().Debugf("Worker %d stopped", id)
}

// run 执行 handler，panic 转换为错误，不影响其他事件
func (p *WorkerPool) run(id int, task EventTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().Errorf("Worker %d: handler panic recovered: event_id=%s panic=%v", id, task.Event.ID, r)
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return task.Handler(task.Ctx, task.Event)
}

// Submit 提交事件并返回结果通道（带缓冲，只会写入一次）
// 队列已满时阻塞，直到有空位或 ctx 结束
func (p *WorkerPool) Submit(ctx context.Context, event models.Event, handler EventHandlerFunc) <-chan error {
	result := make(chan error, 1)

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		result <- ErrPoolClosed
		return result
	}

	task := EventTask{Ctx: ctx, Event: event, Handler: handler, result: result}
	select {
	case p.taskQueue <- task:
	case <-ctx.Done():
		logger.L().Warnf("Worker pool submit aborted: event_id=%s err=%v", event.ID, ctx.Err())
		result <- fmt.Errorf("submit event: %w", ctx.Err())
	}

	return result
}

// Stats 返回当前工作池状态
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		Workers:       p.workers,
		QueueLength:   len(p.taskQueue),
		QueueCapacity: cap(p.taskQueue),
	}
}

// Shutdown 优雅关闭工作池
// 不再接受新任务，等待已排队的任务全部完成
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.taskQueue)
	p.mu.Unlock()

	logger.L().Info("Shutting down worker pool...")
	p.wg.Wait()
	logger.L().Info("Worker pool shut down successfully")
}
