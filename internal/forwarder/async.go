package forwarder

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"service-gateway/internal/common/errors"
	"service-gateway/internal/common/logging"
)

// ErrPoolClosed is returned by Submit after Shutdown
var ErrPoolClosed = stderrors.New("async forwarder is shut down")

// Forwarding is the synchronous forward operation the pool runs
type Forwarding interface {
	Forward(ctx context.Context, req *Request) *Outcome
}

// AsyncConfig sizes the worker pool. CoreWorkers run for the pool's
// lifetime; up to MaxWorkers-CoreWorkers extra workers are started while the
// queue is full and exit after KeepAlive without work.
type AsyncConfig struct {
	CoreWorkers   int
	MaxWorkers    int
	QueueCapacity int
	KeepAlive     time.Duration
}

// DefaultAsyncConfig returns 20 core workers, 100 max, a queue of 500 and a
// 60s keep-alive
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{CoreWorkers: 20, MaxWorkers: 100, QueueCapacity: 500, KeepAlive: 60 * time.Second}
}

type task struct {
	ctx    context.Context
	req    *Request
	result chan *Outcome
}

// AsyncStats is a point-in-time view of the pool
type AsyncStats struct {
	CoreWorkers   int   `json:"core_workers"`
	MaxWorkers    int   `json:"max_workers"`
	ActiveWorkers int64 `json:"active_workers"`
	QueueCapacity int   `json:"queue_capacity"`
	Queued        int   `json:"queued"`
	Submitted     int64 `json:"submitted"`
	CallerRuns    int64 `json:"caller_runs"`
}

// AsyncForwarder runs forwards on a bounded set of workers behind a bounded
// queue. When the queue is full and no extra worker can be started, the
// submitting goroutine runs the forward itself.
type AsyncForwarder struct {
	forwarder Forwarding
	config    AsyncConfig
	tasks     chan task
	wg        sync.WaitGroup
	workers   atomic.Int64

	mu     sync.RWMutex
	closed bool

	submitted  atomic.Int64
	callerRuns atomic.Int64
	logger     logging.Logger
}

// NewAsyncForwarder starts the core workers
func NewAsyncForwarder(f Forwarding, cfg AsyncConfig) *AsyncForwarder {
	def := DefaultAsyncConfig()
	if cfg.CoreWorkers <= 0 {
		cfg.CoreWorkers = def.CoreWorkers
	}
	if cfg.MaxWorkers < cfg.CoreWorkers {
		cfg.MaxWorkers = cfg.CoreWorkers
	}
	if cfg.QueueCapacity < 0 {
		cfg.QueueCapacity = def.QueueCapacity
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = def.KeepAlive
	}

	a := &AsyncForwarder{
		forwarder: f,
		config:    cfg,
		tasks:     make(chan task, cfg.QueueCapacity),
		logger:    logging.GetGlobalLogger().WithFields(logging.String("component", "async_forwarder")),
	}

	a.wg.Add(cfg.CoreWorkers)
	a.workers.Add(int64(cfg.CoreWorkers))
	for i := 0; i < cfg.CoreWorkers; i++ {
		go a.worker()
	}

	a.logger.Info("Async forwarder started",
		logging.Int("core_workers", cfg.CoreWorkers),
		logging.Int("max_workers", cfg.MaxWorkers),
		logging.Int("queue_capacity", cfg.QueueCapacity),
	)
	return a
}

// Submit queues req and returns a channel that receives exactly one outcome.
// ctx must outlive the forward; callers usually detach it from the inbound
// request and bound it with a timeout.
func (a *AsyncForwarder) Submit(ctx context.Context, req *Request) (<-chan *Outcome, error) {
	t := task{ctx: ctx, req: req, result: make(chan *Outcome, 1)}

	a.mu.RLock()
	if a.closed {
		a.mu.RUnlock()
		return nil, ErrPoolClosed
	}
	a.submitted.Add(1)

	select {
	case a.tasks <- t:
		a.mu.RUnlock()
		return t.result, nil
	default:
	}

	if a.reserveWorker() {
		a.wg.Add(1)
		go a.extraWorker(t)
		a.mu.RUnlock()
		return t.result, nil
	}
	a.mu.RUnlock()

	a.callerRuns.Add(1)
	a.logger.WithContext(ctx).Debug("Queue full, running forward on caller",
		logging.String("service", req.Service),
	)
	a.run(t)
	return t.result, nil
}

// Stats reports pool counters
func (a *AsyncForwarder) Stats() AsyncStats {
	return AsyncStats{
		CoreWorkers:   a.config.CoreWorkers,
		MaxWorkers:    a.config.MaxWorkers,
		ActiveWorkers: a.workers.Load(),
		QueueCapacity: a.config.QueueCapacity,
		Queued:        len(a.tasks),
		Submitted:     a.submitted.Load(),
		CallerRuns:    a.callerRuns.Load(),
	}
}

// Shutdown stops accepting work and waits for queued tasks to finish or for
// ctx to end
func (a *AsyncForwarder) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.tasks)
	}
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("Async forwarder stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AsyncForwarder) worker() {
	defer a.wg.Done()
	defer a.workers.Add(-1)
	for t := range a.tasks {
		a.run(t)
	}
}

// reserveWorker claims a slot for an extra worker if the pool is below
// MaxWorkers
func (a *AsyncForwarder) reserveWorker() bool {
	for {
		n := a.workers.Load()
		if n >= int64(a.config.MaxWorkers) {
			return false
		}
		if a.workers.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (a *AsyncForwarder) extraWorker(first task) {
	defer a.wg.Done()
	defer a.workers.Add(-1)

	a.run(first)

	idle := time.NewTimer(a.config.KeepAlive)
	defer idle.Stop()
	for {
		select {
		case t, ok := <-a.tasks:
			if !ok {
				return
			}
			a.run(t)
			idle.Reset(a.config.KeepAlive)
		case <-idle.C:
			return
		}
	}
}

func (a *AsyncForwarder) run(t task) {
	if err := t.ctx.Err(); err != nil {
		t.result <- &Outcome{
			Decision: Expired,
			Service:  t.req.Service,
			Err:      errors.TimeoutError("queued forward").WithContext("reason", err.Error()),
		}
		return
	}
	t.result <- a.forwarder.Forward(t.ctx, t.req)
}
