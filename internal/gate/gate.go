// Package gate serializes user actions so that at most one transaction per slot
// is in flight at any time.
package gate

import (
	"context"
	"sort"
	"sync"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/logger"
)

// Gate holds the pending-action map. It is the only writer of that map.
//
// Rules:
//   - a key can be held once; a second TryAcquire before Release returns false
//   - a slot holds at most one key, whatever its action type
//   - a plot-level key (unstake) excludes every slot key of that plot and
//     vice versa
//   - farm, template and proposal keys lock only their own target
//   - different plots are independent
type Gate struct {
	mu       sync.Mutex
	held     map[domain.ActionKey]struct{}
	bySlot   map[domain.SlotRef]domain.ActionKey
	perPlot  map[string]int
	byTarget map[target]domain.ActionKey
	onChange func(pending int)
}

// target is the resource of a key outside the plot scopes
type target struct {
	scope domain.KeyScope
	id    string
}

// New creates an empty gate
func New() *Gate {
	return &Gate{
		held:     make(map[domain.ActionKey]struct{}),
		bySlot:   make(map[domain.SlotRef]domain.ActionKey),
		perPlot:  make(map[string]int),
		byTarget: make(map[target]domain.ActionKey),
	}
}

// OnChange registers a callback invoked with the pending count after every
// acquire and release. Used for metrics.
func (g *Gate) OnChange(fn func(pending int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onChange = fn
}

// TryAcquire claims key. It returns false without side effects when the key,
// its slot, or its plot is already busy.
func (g *Gate) TryAcquire(key domain.ActionKey) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[key]; ok {
		return false
	}

	if !key.Scope.OnPlot() {
		t := target{scope: key.Scope, id: key.Target}
		if _, busy := g.byTarget[t]; busy {
			return false
		}
		g.byTarget[t] = key
		g.held[key] = struct{}{}
		g.notifyLocked()
		return true
	}

	plotID := key.PlotID()
	if _, busy := g.bySlot[domain.SlotRef{PlotID: plotID, SlotIndex: domain.PlotLevel}]; busy {
		return false
	}
	if key.IsPlotLevel() {
		if g.perPlot[plotID] > 0 {
			return false
		}
	} else if _, busy := g.bySlot[key.Slot()]; busy {
		return false
	}

	g.held[key] = struct{}{}
	g.bySlot[key.Slot()] = key
	g.perPlot[plotID]++
	g.notifyLocked()
	return true
}

// Release frees key. Releasing a key that is not held is a no-op.
func (g *Gate) Release(key domain.ActionKey) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[key]; !ok {
		return
	}
	delete(g.held, key)
	if !key.Scope.OnPlot() {
		delete(g.byTarget, target{scope: key.Scope, id: key.Target})
		g.notifyLocked()
		return
	}

	plotID := key.PlotID()
	delete(g.bySlot, key.Slot())
	if g.perPlot[plotID]--; g.perPlot[plotID] <= 0 {
		delete(g.perPlot, plotID)
	}
	g.notifyLocked()
}

// Do runs fn while holding key and releases it on every exit path, including
// panics. It returns domain.ErrActionPending without calling fn when the key
// cannot be acquired.
func (g *Gate) Do(ctx context.Context, key domain.ActionKey, fn func(ctx context.Context) error) error {
	if !g.TryAcquire(key) {
		logger.FromContext(ctx).Debug(LogMsgGateBusy, "key", key.String())
		return domain.ErrActionPending
	}
	defer g.Release(key)
	return fn(ctx)
}

// IsPending reports whether key is held
func (g *Gate) IsPending(key domain.ActionKey) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[key]
	return ok
}

// PendingForSlot returns the key currently holding a slot, if any
func (g *Gate) PendingForSlot(ref domain.SlotRef) (domain.ActionKey, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if k, ok := g.bySlot[domain.SlotRef{PlotID: ref.PlotID, SlotIndex: domain.PlotLevel}]; ok {
		return k, true
	}
	k, ok := g.bySlot[ref]
	return k, ok
}

// Pending returns a sorted snapshot of held keys
func (g *Gate) Pending() []domain.ActionKey {
	g.mu.Lock()
	out := make([]domain.ActionKey, 0, len(g.held))
	for k := range g.held {
		out = append(out, k)
	}
	g.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Len returns the number of held keys
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.held)
}

func (g *Gate) notifyLocked() {
	if g.onChange != nil {
		g.onChange(len(g.held))
	}
}
