package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/testing/leaktest"
	"github.com/osse101/farmclock/internal/worker"
)

var errIndexer = errors.New("indexer 502")

func counting(calls *atomic.Int32, fail func(n int32) bool) FetchFunc {
	return func(ctx context.Context) error {
		n := calls.Add(1)
		if fail != nil && fail(n) {
			return errIndexer
		}
		return nil
	}
}

func TestTask_RunsAllTriesUnconditionally(t *testing.T) {
	var calls atomic.Int32
	task := NewTask(counting(&calls, nil), Options{Tries: 3, Delay: time.Millisecond})

	require.NoError(t, task.Process(context.Background()))

	res := task.Result()
	assert.Equal(t, int32(3), calls.Load(), "first success must not stop the loop")
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, res.Successes)
	assert.False(t, res.Cancelled)
}

func TestTask_PartialFailureIsSuccess(t *testing.T) {
	var calls atomic.Int32
	task := NewTask(counting(&calls, func(n int32) bool { return n != 2 }), Options{Tries: 3})

	require.NoError(t, task.Process(context.Background()))
	res := task.Result()
	assert.Equal(t, 1, res.Successes)
	assert.ErrorIs(t, res.LastErr, errIndexer)
}

func TestTask_AllFailedIsIndexerLag(t *testing.T) {
	var calls atomic.Int32
	task := NewTask(counting(&calls, func(int32) bool { return true }), Options{Tries: 2})

	err := task.Process(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetworkOrIndexerLag)
	assert.Equal(t, 2, task.Result().Attempts)
}

func TestTask_CancelStopsAtIterationBoundary(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	var calls atomic.Int32
	task := PollRefresh(context.Background(), counting(&calls, nil), Options{Tries: 5, Delay: time.Hour})

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	task.Cancel()

	res, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Equal(t, 1, res.Attempts)
	assert.NoError(t, res.Err())
	assert.Equal(t, int32(1), calls.Load())

	checker.Check(0)
}

func TestTask_CancelBeforeStart(t *testing.T) {
	var calls atomic.Int32
	var got Result
	task := NewTask(counting(&calls, nil), Options{Tries: 3}).OnDone(func(r Result) { got = r })

	task.Cancel()
	task.Cancel()

	select {
	case <-task.Done():
	default:
		t.Fatal("cancelled task should be done")
	}
	assert.NoError(t, task.Process(context.Background()))
	assert.Equal(t, int32(0), calls.Load())
	assert.True(t, got.Cancelled)
}

func TestTask_InFlightFetchSeesCancellation(t *testing.T) {
	started := make(chan struct{})
	task := PollRefresh(context.Background(), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, Options{Tries: 3})

	<-started
	task.Cancel()

	res, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Equal(t, 1, res.Attempts)
}

func TestTask_OnWorkerPool(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	var calls atomic.Int32
	task := NewTask(counting(&calls, nil), Options{Tries: 2})
	require.NoError(t, pool.Enqueue(task))

	res, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Successes)
}

func TestTask_ProcessOnlyOnce(t *testing.T) {
	var calls atomic.Int32
	task := NewTask(counting(&calls, nil), Options{Tries: 1})

	require.NoError(t, task.Process(context.Background()))
	require.NoError(t, task.Process(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestOptions_Defaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, domain.DefaultRefreshTries, o.Tries)
	assert.Equal(t, time.Duration(0), o.Delay)

	o = Options{Delay: -1}.withDefaults()
	assert.Equal(t, domain.DefaultRefreshDelay, o.Delay)
}

func TestGroup_SupersedesPreviousTask(t *testing.T) {
	g := NewGroup()
	ctx := context.Background()

	block := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	first := PollRefresh(ctx, block, Options{Tries: 1})
	g.Track(ctx, "farm-1", first)

	var calls atomic.Int32
	second := NewTask(counting(&calls, nil), Options{Tries: 1})
	g.Track(ctx, "farm-1", second)

	res, err := first.Wait(ctx)
	require.NoError(t, err)
	assert.True(t, res.Cancelled)

	require.NoError(t, second.Process(ctx))
	require.Eventually(t, func() bool { return g.Len() == 0 }, time.Second, time.Millisecond)
}

func TestGroup_CancelAll(t *testing.T) {
	g := NewGroup()
	ctx := context.Background()

	a := NewTask(func(context.Context) error { return nil }, Options{})
	b := NewTask(func(context.Context) error { return nil }, Options{})
	g.Track(ctx, "a", a)
	g.Track(ctx, "b", b)

	g.CancelAll()
	<-a.Done()
	<-b.Done()
	require.Eventually(t, func() bool { return g.Len() == 0 }, time.Second, time.Millisecond)
}
