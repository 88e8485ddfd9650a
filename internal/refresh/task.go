// Package refresh re-fetches eventually consistent indexer data after a
// transaction. A Task runs every try unconditionally, with a fixed delay
// between tries, because an early successful read may still be stale.
package refresh

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/logger"
)

// FetchFunc performs one re-fetch
type FetchFunc func(ctx context.Context) error

// Options controls a Task
type Options struct {
	Tries int
	Delay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Tries <= 0 {
		o.Tries = domain.DefaultRefreshTries
	}
	if o.Delay < 0 {
		o.Delay = domain.DefaultRefreshDelay
	}
	return o
}

// Result summarizes a finished task
type Result struct {
	Attempts  int
	Successes int
	LastErr   error
	Cancelled bool
}

// Err returns domain.ErrNetworkOrIndexerLag when every attempt failed.
// A cancelled task or one with at least one success reports nil.
func (r Result) Err() error {
	if r.Cancelled || r.Successes > 0 || r.Attempts == 0 {
		return nil
	}
	return fmt.Errorf("%w: "+ErrMsgAllAttemptsFailed, domain.ErrNetworkOrIndexerLag, r.Attempts, r.LastErr)
}

// Task is a cancellable refresh loop. It implements worker.Job so it can run
// on the shared pool; PollRefresh runs one on its own goroutine.
type Task struct {
	fetch  FetchFunc
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	started atomic.Bool
	done    chan struct{}
	result  Result
	onDone  func(Result)
}

// NewTask creates a task. It does nothing until Process is called.
func NewTask(fetch FetchFunc, opts Options) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	return &Task{
		fetch:  fetch,
		opts:   opts.withDefaults(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// OnDone registers fn to run once with the final result. Must be called before Process.
func (t *Task) OnDone(fn func(Result)) *Task {
	t.onDone = fn
	return t
}

// PollRefresh starts fetch on its own goroutine and returns the handle
func PollRefresh(ctx context.Context, fetch FetchFunc, opts Options) *Task {
	t := NewTask(fetch, opts)
	go func() { _ = t.Process(ctx) }()
	return t
}

// Cancel stops the task at the next iteration boundary. An in-flight fetch
// sees its context cancelled. A task cancelled before it started finishes
// immediately with zero attempts. Safe to call at any time.
func (t *Task) Cancel() {
	t.cancel()
	if t.started.CompareAndSwap(false, true) {
		t.finish(Result{Cancelled: true})
	}
}

// Done is closed when the task has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx ends
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the final result. Only meaningful after Done is closed.
func (t *Task) Result() Result {
	select {
	case <-t.done:
		return t.result
	default:
		return Result{}
	}
}

// Process runs the loop. Only the first call does any work. The loop stops
// when either ctx or the task itself is cancelled.
func (t *Task) Process(ctx context.Context) error {
	if !t.started.CompareAndSwap(false, true) {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(t.ctx, cancel)
	defer stop()

	res := t.run(runCtx)
	t.finish(res)
	return res.Err()
}

func (t *Task) finish(res Result) {
	t.result = res
	if t.onDone != nil {
		t.onDone(res)
	}
	close(t.done)
}

func (t *Task) run(ctx context.Context) Result {
	log := logger.FromContext(ctx)
	var res Result

	for i := 0; i < t.opts.Tries; i++ {
		if i > 0 && t.opts.Delay > 0 {
			timer := time.NewTimer(t.opts.Delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
			}
		}
		if ctx.Err() != nil {
			res.Cancelled = true
			log.Debug(LogMsgTaskCancelled, "attempts", res.Attempts)
			return res
		}

		res.Attempts++
		if err := t.fetch(ctx); err != nil {
			res.LastErr = err
			log.Debug(LogMsgAttemptFailed, "attempt", res.Attempts, "error", err)
			continue
		}
		res.Successes++
	}

	log.Debug(LogMsgTaskCompleted, "attempts", res.Attempts, "successes", res.Successes)
	return res
}
