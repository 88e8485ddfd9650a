package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/farmclock/internal/logger"
	"github.com/osse101/farmclock/internal/worker"
)

// Scheduler manages scheduled jobs. Jobs are either handed to a worker pool or,
// when no pool is configured, run inline on the ticker goroutine so that a slow
// run delays the next one instead of piling up.
type Scheduler struct {
	workerPool *worker.Pool
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// New creates a new scheduler. pool may be nil.
func New(pool *worker.Pool) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		workerPool: pool,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Schedule registers a job to run at a fixed interval, first run after one interval
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.schedule(interval, job, false)
}

// ScheduleNow registers a job to run immediately and then at a fixed interval
func (s *Scheduler) ScheduleNow(interval time.Duration, job worker.Job) {
	s.schedule(interval, job, true)
}

func (s *Scheduler) schedule(interval time.Duration, job worker.Job, immediate bool) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if immediate {
			s.dispatch(job)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.dispatch(job)
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *Scheduler) dispatch(job worker.Job) {
	if s.ctx.Err() != nil {
		return
	}
	if s.workerPool != nil {
		if err := s.workerPool.TryEnqueue(job); err != nil {
			logger.FromContext(s.ctx).Warn(LogMsgJobDropped, "error", err)
		}
		return
	}
	if err := job.Process(s.ctx); err != nil {
		logger.FromContext(s.ctx).Debug(LogMsgJobFailed, "error", err)
	}
}

// Stop stops all scheduled jobs and waits for their goroutines to exit.
// Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}
