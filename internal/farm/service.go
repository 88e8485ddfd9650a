// Package farm orchestrates user actions against a farm: local legality
// checks, the action gate, wallet submission, the journal and the post-action
// refresh. It also renders per-slot views from the chain clock.
package farm

import (
	"context"
	"time"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/event"
	"github.com/osse101/farmclock/internal/gate"
	"github.com/osse101/farmclock/internal/journal"
	"github.com/osse101/farmclock/internal/logger"
	"github.com/osse101/farmclock/internal/metrics"
	"github.com/osse101/farmclock/internal/refresh"
	"github.com/osse101/farmclock/internal/wallet"
	"github.com/osse101/farmclock/internal/worker"
)

// Clock is the chain-time source used for legality and cooldowns
type Clock interface {
	Estimate() time.Time
	Stale() bool
	// Synced is false until the first successful fetch of chain time
	Synced() bool
}

// Snapshots reads indexer state. The indexer lags the chain; FetchPlots
// bypasses the cache.
type Snapshots interface {
	Farm(ctx context.Context, owner, farmID string) (domain.Farm, error)
	Plots(ctx context.Context, farmID string) ([]domain.Plot, error)
	FetchPlots(ctx context.Context, farmID string) ([]domain.Plot, error)
	Plot(ctx context.Context, farmID, plotID string) (domain.Plot, error)
	Inventory(ctx context.Context, account string) (domain.Inventory, error)
	Invalidate(ctx context.Context, farmID string)
	InvalidateAccount(ctx context.Context, account string)
}

// Enqueuer runs refresh tasks in the background
type Enqueuer interface {
	TryEnqueue(job worker.Job) error
}

// Settings are the contract and token parameters actions are encoded with
type Settings struct {
	FarmContract    string
	TokenContract   string
	NFTContract     string
	TokenSymbol     string
	TokenPrecision  int
	WaterEnergyCost int64
	Refresh         refresh.Options
}

// Service defines the farm action and view operations
type Service interface {
	// Execute checks, gates, submits and journals one action
	Execute(ctx context.Context, req ActionRequest) (*Outcome, error)
	// Farm renders the slot views of every plot of a farm
	Farm(ctx context.Context, farmID string) (*FarmView, error)
	// Pending lists the action keys currently in flight
	Pending() []domain.ActionKey
	// Journal lists recent submissions, newest first
	Journal(ctx context.Context, limit int) ([]journal.Entry, error)
	// Shutdown cancels outstanding refreshes
	Shutdown(ctx context.Context) error
}

type service struct {
	settings  Settings
	session   wallet.Session
	clock     Clock
	snapshots Snapshots
	gate      *gate.Gate
	journal   journal.Store
	bus       event.Bus
	pool      Enqueuer
	refreshes *refresh.Group
	now       func() time.Time
}

// NewService creates a new farm service. session may be nil, in which case
// views work and every action is rejected as read-only.
func NewService(
	settings Settings,
	session wallet.Session,
	clock Clock,
	snapshots Snapshots,
	g *gate.Gate,
	store journal.Store,
	bus event.Bus,
	pool Enqueuer,
) Service {
	if bus == nil {
		bus = event.Discard{}
	}
	g.OnChange(func(pending int) {
		metrics.PendingActions.Set(float64(pending))
	})
	return &service{
		settings:  settings,
		session:   session,
		clock:     clock,
		snapshots: snapshots,
		gate:      g,
		journal:   store,
		bus:       bus,
		pool:      pool,
		refreshes: refresh.NewGroup(),
		now:       time.Now,
	}
}

func (s *service) account() string {
	if s.session == nil {
		return ""
	}
	return s.session.Actor()
}

// Pending lists the action keys currently in flight
func (s *service) Pending() []domain.ActionKey {
	return s.gate.Pending()
}

// Journal lists recent submissions, newest first
func (s *service) Journal(ctx context.Context, limit int) ([]journal.Entry, error) {
	return s.journal.Recent(ctx, limit)
}

// Shutdown cancels outstanding refreshes
func (s *service) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgShutdownRefreshes, "count", s.refreshes.Len())
	s.refreshes.CancelAll()
	return nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
