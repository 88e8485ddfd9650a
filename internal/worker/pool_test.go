package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/farmclock/internal/testing/leaktest"
)

type countingJob struct {
	executed *atomic.Int32
	wg       *sync.WaitGroup
}

func (j countingJob) Process(ctx context.Context) error {
	defer j.wg.Done()
	j.executed.Add(1)
	return nil
}

func TestPool(t *testing.T) {
	var executed atomic.Int32
	var wg sync.WaitGroup
	pool := NewPool(2, 10)
	pool.Start()

	job := countingJob{executed: &executed, wg: &wg}
	wg.Add(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, pool.Enqueue(job))
	}
	wg.Wait()
	pool.Stop()

	assert.Equal(t, int32(3), executed.Load())
}

func TestPool_StopCancelsJobContext(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	pool := NewPool(1, 1)
	pool.Start()

	started := make(chan struct{})
	var sawCancel atomic.Bool
	require.NoError(t, pool.Enqueue(JobFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return ctx.Err()
	})))

	<-started
	pool.Stop()
	pool.Stop()

	assert.True(t, sawCancel.Load())
	assert.ErrorIs(t, pool.Enqueue(JobFunc(func(context.Context) error { return nil })), ErrPoolStopped)
	assert.ErrorIs(t, pool.TryEnqueue(JobFunc(func(context.Context) error { return nil })), ErrPoolStopped)

	checker.Check(0)
}

func TestPool_TryEnqueueFull(t *testing.T) {
	pool := NewPool(1, 1)
	// not started: nothing drains the queue
	require.NoError(t, pool.TryEnqueue(JobFunc(func(context.Context) error { return nil })))
	assert.ErrorIs(t, pool.TryEnqueue(JobFunc(func(context.Context) error { return nil })), ErrQueueFull)
	assert.Equal(t, 1, pool.QueueLen())
	pool.Stop()
}

func TestPool_OnError(t *testing.T) {
	pool := NewPool(1, 1)
	errs := make(chan error, 1)
	pool.OnError(func(err error) { errs <- err })
	pool.Start()
	defer pool.Stop()

	boom := errors.New("boom")
	require.NoError(t, pool.Enqueue(JobFunc(func(context.Context) error { return boom })))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("error hook not called")
	}
}
