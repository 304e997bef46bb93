package uploadkit

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Scheduler registers fire-and-forget background work. Scheduled tasks are
// detached from the originating request: they receive the scheduler's own
// context, not the request context, and their outcome is never delivered
// back to the request.
type Scheduler interface {
	Schedule(task func(ctx context.Context))
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(task func(ctx context.Context))

// Schedule implements Scheduler.
func (f SchedulerFunc) Schedule(task func(ctx context.Context)) {
	f(task)
}

// Pool is the default Scheduler: a bounded worker pool. The bound keeps
// adversarial requests from fanning out into unbounded goroutines; once all
// workers are busy and the queue is full, Schedule blocks until a slot
// frees up.
type Pool struct {
	tasks  chan func(ctx context.Context)
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
	onDone func()

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// PoolOption configures the worker pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger used to report recovered task panics.
// If nil, logging is disabled.
func WithPoolLogger(l *slog.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithCompletionCallback registers a callback invoked after every task
// finishes, including tasks that panicked. Background outcomes are otherwise
// unobservable; this is the operator-facing hook for counting them.
func WithCompletionCallback(fn func()) PoolOption {
	return func(p *Pool) {
		if fn != nil {
			p.onDone = fn
		}
	}
}

// Default pool sizing.
const (
	defaultPoolWorkers = 4
	defaultPoolQueue   = 64
)

// NewPool creates and starts a worker pool with the given number of workers.
// If workers is not positive, a small default is used.
func NewPool(workers int, opts ...PoolOption) *Pool {
	if workers <= 0 {
		workers = defaultPoolWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan func(ctx context.Context), defaultPoolQueue),
		ctx:    ctx,
		cancel: cancel,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	return p
}

// Schedule implements Scheduler. After Close, scheduled tasks are dropped.
func (p *Pool) Schedule(task func(ctx context.Context)) {
	if task == nil {
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	p.tasks <- task
}

// Close stops accepting work, waits for queued tasks to finish, and releases
// the workers. Safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		close(p.tasks)
		p.wg.Wait()
		p.cancel()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("background upload task panicked", slog.Any("panic", r))
		}
		if p.onDone != nil {
			p.onDone()
		}
	}()
	task(p.ctx)
}
