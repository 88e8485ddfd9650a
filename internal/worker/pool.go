package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/osse101/farmclock/internal/logger"
)

// Pool errors
var (
	ErrPoolStopped = errors.New(ErrMsgPoolStopped)
	ErrQueueFull   = errors.New(ErrMsgQueueFull)
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context) error

// Process calls f(ctx)
func (f JobFunc) Process(ctx context.Context) error {
	return f(ctx)
}

// Pool represents a worker pool. Jobs receive a context that is cancelled
// when the pool stops, so long-running jobs can exit promptly.
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	quit     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc

	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
	onError  func(error)
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		quit:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// OnError registers a hook invoked for every failed job. Must be called before Start.
func (p *Pool) OnError(fn func(error)) {
	p.onError = fn
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// worker is the worker loop
func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(id, job)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) run(id int, job Job) {
	if err := job.Process(p.ctx); err != nil {
		logger.FromContext(p.ctx).Warn(LogMsgWorkerJobFailed, "worker", id, "error", err)
		if p.onError != nil {
			p.onError(err)
		}
	}
}

// Enqueue adds a job to the queue, blocking while the queue is full.
// It returns ErrPoolStopped once Stop has been called.
func (p *Pool) Enqueue(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	select {
	case p.jobQueue <- job:
		return nil
	case <-p.quit:
		return ErrPoolStopped
	}
}

// TryEnqueue adds a job without blocking. It returns ErrQueueFull when the
// queue has no room.
func (p *Pool) TryEnqueue(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	select {
	case p.jobQueue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// QueueLen returns the number of jobs waiting for a worker
func (p *Pool) QueueLen() int {
	return len(p.jobQueue)
}

// Stop cancels the job context, stops the workers and waits for in-flight jobs.
// Queued jobs that have not started are dropped. Safe to call more than once.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		close(p.quit)
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		p.wg.Wait()
		logger.FromContext(p.ctx).Debug(LogMsgPoolStopped, "dropped", len(p.jobQueue))
	})
}
