// Package chainclock keeps a local estimate of the blockchain's head-block time.
//
// The remote value is polled at a fixed interval and extrapolated between polls
// with the local monotonic clock, so the estimate never depends on the local wall
// clock agreeing with the chain. A separate ticker advances the cached estimate
// once per second for smooth countdowns. Fetch failures are never surfaced to
// consumers: they keep reading the last known value, flagged stale after
// domain.StaleAfterFailures consecutive failures.
package chainclock

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/event"
	"github.com/osse101/farmclock/internal/logger"
	"github.com/osse101/farmclock/internal/metrics"
	"github.com/osse101/farmclock/internal/scheduler"
	"github.com/osse101/farmclock/internal/worker"
)

// Source provides the authoritative remote time
type Source interface {
	HeadBlockTime(ctx context.Context) (time.Time, error)
}

// Config configures a Clock
type Config struct {
	PollInterval time.Duration
	TickInterval time.Duration
	FetchTimeout time.Duration
	Bus          event.Bus
	// Local is the local clock; time.Now when nil. Only differences between
	// readings are used, so its wall value is irrelevant.
	Local func() time.Time
}

// Status is a snapshot of the clock for display
type Status struct {
	Now                 time.Time     `json:"now"`
	LastSync            time.Time     `json:"last_sync"`
	Synced              bool          `json:"synced"`
	Stale               bool          `json:"stale"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	Skew                time.Duration `json:"-"`
	SkewMillis          int64         `json:"skew_ms"`
}

// Clock is the ChainClock service. Create with New, then Start and Stop it
// around the lifetime of whatever consumes it. A stopped clock can be restarted.
type Clock struct {
	source Source
	cfg    Config
	local  func() time.Time

	mu        sync.RWMutex
	remote    time.Time
	fetchedAt time.Time
	synced    bool
	failures  int
	estimate  time.Time

	runMu sync.Mutex
	sched *scheduler.Scheduler
}

// New creates a clock reading from source
func New(source Source, cfg Config) *Clock {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = domain.DefaultClockPollInterval
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = domain.DefaultClockTickInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Bus == nil {
		cfg.Bus = event.Discard{}
	}
	local := cfg.Local
	if local == nil {
		local = time.Now
	}
	return &Clock{source: source, cfg: cfg, local: local}
}

// Start fetches the remote time immediately and starts the poll and tick timers.
// Calling Start on a running clock is a no-op.
func (c *Clock) Start(ctx context.Context) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.sched != nil {
		return
	}

	c.sched = scheduler.New(nil)
	c.sched.ScheduleNow(c.cfg.PollInterval, worker.JobFunc(c.poll))
	c.sched.Schedule(c.cfg.TickInterval, worker.JobFunc(c.tick))

	logger.FromContext(ctx).Info(LogMsgClockStarted,
		"poll_interval", c.cfg.PollInterval,
		"tick_interval", c.cfg.TickInterval)
}

// Stop clears both timers and waits for a running fetch to return
func (c *Clock) Stop(ctx context.Context) {
	c.runMu.Lock()
	sched := c.sched
	c.sched = nil
	c.runMu.Unlock()

	if sched == nil {
		return
	}
	sched.Stop()
	logger.FromContext(ctx).Info(LogMsgClockStopped)
}

// Running reports whether the timers are active
func (c *Clock) Running() bool {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	return c.sched != nil
}

// Refresh fetches the remote time once. On failure the last value is kept and
// the error returned for callers that care; the background poll ignores it.
func (c *Clock) Refresh(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	remote, err := c.source.HeadBlockTime(fetchCtx)
	local := c.local()
	if err != nil {
		return c.recordFailure(ctx, err)
	}

	c.mu.Lock()
	firstSync := !c.synced
	c.remote = remote.UTC()
	c.fetchedAt = local
	c.synced = true
	c.failures = 0
	// once synced the estimate never steps backwards
	if fresh := c.remote.Truncate(time.Second); firstSync || fresh.After(c.estimate) {
		c.estimate = fresh
	}
	c.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgClockSynced, "remote", remote, "skew", c.Status().Skew)
	return nil
}

func (c *Clock) recordFailure(ctx context.Context, err error) error {
	c.mu.Lock()
	c.failures++
	failures := c.failures
	c.mu.Unlock()

	metrics.ClockRefreshFailures.Inc()
	log := logger.FromContext(ctx)
	log.Debug(LogMsgClockRefreshFailed, "error", err, "consecutive_failures", failures)

	if failures == domain.StaleAfterFailures {
		log.Warn(LogMsgClockStale, "consecutive_failures", failures)
		c.publish(ctx, event.ClockStale)
	}
	return err
}

// Now returns the current estimate of remote time: the last fetched remote
// value plus local time elapsed since that fetch. Before the first successful
// fetch it falls back to local time in UTC.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nowLocked()
}

func (c *Clock) nowLocked() time.Time {
	if !c.synced {
		return c.local().UTC()
	}
	return c.remote.Add(c.local().Sub(c.fetchedAt))
}

// Estimate returns the value advanced by the ticker, truncated to whole seconds
// so countdowns step once per tick. Falls back to Now before the first tick.
func (c *Clock) Estimate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.estimate.IsZero() {
		return c.nowLocked()
	}
	return c.estimate
}

// Synced reports whether any fetch has succeeded. Until then Now and Estimate
// fall back to local time, which must not gate cooldowns.
func (c *Clock) Synced() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.synced
}

// Stale reports whether consumers are looking at a last-known value
func (c *Clock) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.staleLocked()
}

func (c *Clock) staleLocked() bool {
	return !c.synced || c.failures >= domain.StaleAfterFailures
}

// Status returns a snapshot for display
func (c *Clock) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Status{
		Now:                 c.nowLocked(),
		LastSync:            c.remote,
		Synced:              c.synced,
		Stale:               c.staleLocked(),
		ConsecutiveFailures: c.failures,
	}
	if c.synced {
		s.Skew = c.remote.Sub(c.fetchedAt.UTC())
		s.SkewMillis = s.Skew.Milliseconds()
	}
	return s
}

func (c *Clock) poll(ctx context.Context) error {
	// failure already recorded; the scheduler only needs to keep going
	_ = c.Refresh(ctx)
	return nil
}

func (c *Clock) tick(ctx context.Context) error {
	c.mu.Lock()
	if next := c.nowLocked().Truncate(time.Second); next.After(c.estimate) {
		c.estimate = next
	}
	c.mu.Unlock()

	c.publish(ctx, event.ClockTick)
	return nil
}

func (c *Clock) publish(ctx context.Context, t event.Type) {
	s := c.Status()
	evt := event.NewClockEvent(t, event.ClockPayloadV1{
		Now:                 s.Now,
		LastSync:            s.LastSync,
		Stale:               s.Stale,
		ConsecutiveFailures: s.ConsecutiveFailures,
		SkewMillis:          s.SkewMillis,
	})
	if err := c.cfg.Bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", t, "error", err)
	}
}
