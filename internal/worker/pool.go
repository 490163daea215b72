// Package worker runs background tasks on a fixed set of goroutines.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/metrics"
)

// Task is one unit of background work. It must honour ctx cancellation.
type Task func(ctx context.Context) error

type job struct {
	key string
	run Task
}

// Pool is a bounded queue drained by a fixed number of workers.
// A key that is already queued or running is not queued again.
type Pool struct {
	size    int
	timeout time.Duration
	logger  *slog.Logger
	queue   chan job

	mu      sync.Mutex
	pending map[string]struct{}
	running bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Pool.
type Option func(*Pool)

// WithTaskTimeout bounds each task.
func WithTaskTimeout(d time.Duration) Option {
	return func(p *Pool) { p.timeout = d }
}

// WithLogger sets the sink for task failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a pool of size workers with room for queueSize waiting tasks.
func NewPool(size, queueSize int, opts ...Option) *Pool {
	if size < 1 {
		size = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Pool{
		size:    size,
		timeout: time.Minute,
		logger:  slog.Default(),
		queue:   make(chan job, queueSize),
		pending: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pool) Name() string { return "background-worker-pool" }

// Start launches the workers. Tasks run under a context derived from ctx.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	if p.stopped {
		p.mu.Unlock()
		return fmt.Errorf("worker pool already stopped")
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.mu.Unlock()

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.loop(runCtx)
	}

	p.logger.Info("Worker pool started", slog.Int("workers", p.size), slog.Int("queue", cap(p.queue)))
	return nil
}

// Submit queues run under key without blocking. It returns false when the
// pool is stopped, the queue is full, or key is already pending.
func (p *Pool) Submit(key string, run Task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		metrics.RecordWorkerTask("dropped")
		return false
	}
	if _, dup := p.pending[key]; dup {
		metrics.RecordWorkerTask("duplicate")
		return false
	}

	select {
	case p.queue <- job{key: key, run: run}:
		p.pending[key] = struct{}{}
		metrics.SetWorkerQueueDepth(len(p.queue))
		return true
	default:
		p.logger.Warn("Worker queue full, dropping task", slog.String("key", key))
		metrics.RecordWorkerTask("dropped")
		return false
	}
}

// Stop cancels running tasks, stops accepting new ones, and waits for the
// workers to exit or ctx to expire. Queued tasks that never started are dropped.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	cancel := p.cancel
	wasRunning := p.running
	p.running = false
	close(p.queue)
	p.mu.Unlock()

	if !wasRunning {
		return nil
	}
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.logger.Info("Worker pool stopped")
	return nil
}

func (p *Pool) loop(ctx context.Context) {
	defer p.wg.Done()
	for j := range p.queue {
		metrics.SetWorkerQueueDepth(len(p.queue))
		if ctx.Err() != nil {
			p.finish(j.key)
			metrics.RecordWorkerTask("dropped")
			continue
		}
		p.execute(ctx, j)
	}
}

func (p *Pool) execute(ctx context.Context, j job) {
	defer p.finish(j.key)

	taskCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Background task panicked",
				slog.String("key", j.key),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			metrics.RecordWorkerTask("panic")
		}
	}()

	if err := j.run(taskCtx); err != nil {
		p.logger.Error("Background task failed",
			slog.String("key", j.key),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		metrics.RecordWorkerTask("error")
		return
	}
	p.logger.Debug("Background task finished", slog.String("key", j.key), slog.Duration("elapsed", time.Since(start)))
	metrics.RecordWorkerTask("ok")
}

func (p *Pool) finish(key string) {
	p.mu.Lock()
	delete(p.pending, key)
	p.mu.Unlock()
}
