package farm

import (
	"context"
	"errors"
	"time"

	"github.com/osse101/farmclock/internal/cooldown"
	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/growth"
)

// SlotView is what a UI needs to render one slot
type SlotView struct {
	Index            int                 `json:"index"`
	State            domain.SlotState    `json:"state"`
	Tick             int                 `json:"tick"`
	TickGoal         int                 `json:"tick_goal"`
	Cooldown         cooldown.State      `json:"cooldown"`
	CooldownLabel    string              `json:"cooldown_label,omitempty"`
	CooldownDeadline *time.Time          `json:"cooldown_deadline,omitempty"`
	Actions          []domain.ActionType `json:"actions"`
	Pending          bool                `json:"pending"`
	PendingKey       string              `json:"pending_key,omitempty"`
}

// PlotView groups the slot views of a plot
type PlotView struct {
	ID             string     `json:"plot_id"`
	Capacity       int        `json:"capacity"`
	Slots          []SlotView `json:"slots"`
	CanUnstake     bool       `json:"can_unstake"`
	UnstakePending bool       `json:"unstake_pending"`
}

// FarmView is a farm rendered against one clock reading
type FarmView struct {
	FarmID string     `json:"farm_id"`
	Now    time.Time  `json:"now"`
	Stale  bool       `json:"stale"`
	Synced bool       `json:"synced"`
	Energy *int64     `json:"energy,omitempty"`
	Seeds  *int       `json:"seeds,omitempty"`
	Plots  []PlotView `json:"plots"`
}

// Farm renders the slot views of every plot of a farm. Energy and seeds are
// only known when a wallet account is configured.
func (s *service) Farm(ctx context.Context, farmID string) (*FarmView, error) {
	plots, err := s.snapshots.Plots(ctx, farmID)
	if err != nil {
		return nil, err
	}

	view := &FarmView{
		FarmID: farmID,
		Now:    s.clock.Estimate(),
		Stale:  s.clock.Stale(),
		Synced: s.clock.Synced(),
		Plots:  make([]PlotView, 0, len(plots)),
	}
	gctx := growth.Context{Now: view.Now, WaterEnergyCost: s.settings.WaterEnergyCost}

	if actor := s.account(); actor != "" {
		f, err := s.snapshots.Farm(ctx, actor, farmID)
		switch {
		case err == nil:
			view.Energy = &f.Energy
			gctx.Energy = f.Energy
		case errors.Is(err, domain.ErrFarmNotFound):
			// someone else's farm: nothing can be submitted against it
			gctx.WaterEnergyCost = 0
		default:
			return nil, err
		}

		inv, err := s.snapshots.Inventory(ctx, actor)
		if err != nil {
			return nil, err
		}
		seeds := inv.SeedsAvailable()
		view.Seeds = &seeds
		gctx.SeedsAvailable = seeds
	} else {
		gctx.WaterEnergyCost = 0
	}

	for _, p := range plots {
		view.Plots = append(view.Plots, s.plotView(p, gctx, view.Synced))
	}
	return view, nil
}

func (s *service) plotView(p domain.Plot, gctx growth.Context, synced bool) PlotView {
	pv := PlotView{
		ID:             p.ID,
		Capacity:       p.Capacity,
		Slots:          make([]SlotView, 0, len(p.Slots)),
		CanUnstake:     growth.CanUnstake(p) == nil,
		UnstakePending: s.gate.IsPending(domain.NewPlotKey(domain.ActionUnstake, p.ID)),
	}
	for _, slot := range p.Slots {
		pv.Slots = append(pv.Slots, s.slotView(p.ID, slot, gctx, synced))
	}
	return pv
}

// slotView is pure given the clock reading and the gate snapshot. Water is
// withheld until chain time is known.
func (s *service) slotView(plotID string, slot domain.Slot, gctx growth.Context, synced bool) SlotView {
	slot = growth.Normalize(slot)
	cd := cooldown.WaterCooldownRemaining(slot, gctx.Now)

	sv := SlotView{
		Index:         slot.Index,
		State:         slot.State,
		Tick:          slot.Tick,
		TickGoal:      slot.TickGoal,
		Cooldown:      cd.State,
		CooldownLabel: cd.Label(),
		Actions:       growth.LegalActions(slot, gctx),
	}
	if cd.State != cooldown.NotApplicable {
		deadline := cd.Deadline
		sv.CooldownDeadline = &deadline
	}
	if !synced {
		sv.Actions = withoutAction(sv.Actions, domain.ActionWater)
	}
	if sv.Actions == nil {
		sv.Actions = []domain.ActionType{}
	}

	if key, ok := s.gate.PendingForSlot(domain.SlotRef{PlotID: plotID, SlotIndex: slot.Index}); ok {
		sv.Pending = true
		sv.PendingKey = key.String()
		// a pending slot offers nothing until its transaction resolves
		sv.Actions = []domain.ActionType{}
	}
	return sv
}

func withoutAction(actions []domain.ActionType, drop domain.ActionType) []domain.ActionType {
	out := actions[:0]
	for _, a := range actions {
		if a != drop {
			out = append(out, a)
		}
	}
	return out
}
