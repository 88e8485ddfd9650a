// Package growth classifies planting slots and decides which actions are legal
// against them, locally and before anything is sent to the wallet.
package growth

import (
	"fmt"
	"strings"
	"time"

	"github.com/osse101/farmclock/internal/cooldown"
	"github.com/osse101/farmclock/internal/domain"
)

// Context carries everything outside the slot that legality depends on
type Context struct {
	// Now is the chain clock reading
	Now time.Time
	// SeedsAvailable is the number of plantable seeds in the inventory snapshot
	SeedsAvailable int
	// Energy is the farm's energy balance
	Energy int64
	// WaterEnergyCost is the energy one watering consumes; zero disables the check
	WaterEnergyCost int64
}

// Classify derives the slot state from tick and seed metadata. The indexer's
// reported state is only consulted when the tick goal is unknown.
func Classify(s domain.Slot) domain.SlotState {
	if !s.HasSeed() {
		return domain.SlotEmpty
	}
	if s.TickGoal > 0 {
		if s.Tick >= s.TickGoal {
			return domain.SlotReady
		}
		return domain.SlotGrowing
	}
	if normalizeState(string(s.State)) == domain.SlotReady {
		return domain.SlotReady
	}
	return domain.SlotGrowing
}

// Normalize returns a copy of the slot with State derived by Classify and Tick
// clamped to [0, TickGoal]
func Normalize(s domain.Slot) domain.Slot {
	s.State = Classify(s)
	if s.Tick < 0 {
		s.Tick = 0
	}
	if s.TickGoal > 0 && s.Tick > s.TickGoal {
		s.Tick = s.TickGoal
	}
	if s.State == domain.SlotEmpty {
		s.Tick = 0
	}
	return s
}

func normalizeState(raw string) domain.SlotState {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(domain.SlotReady):
		return domain.SlotReady
	case string(domain.SlotGrowing):
		return domain.SlotGrowing
	default:
		return domain.SlotEmpty
	}
}

// Check returns nil when action may be submitted against slot, or an error
// wrapping domain.ErrIllegalTransition / domain.ErrInvalidInput explaining why not.
func Check(action domain.ActionType, slot domain.Slot, ctx Context) error {
	state := Classify(slot)

	switch action {
	case domain.ActionPlant:
		if state != domain.SlotEmpty {
			return illegal(action, state)
		}
		if ctx.SeedsAvailable <= 0 {
			return fmt.Errorf("%w: slot %d", domain.ErrSeedUnavailable, slot.Index)
		}
		return nil

	case domain.ActionWater:
		if state != domain.SlotGrowing {
			return illegal(action, state)
		}
		slot.State = state
		if err := cooldown.Check(action, cooldown.WaterCooldownRemaining(slot, ctx.Now)); err != nil {
			return err
		}
		if ctx.WaterEnergyCost > 0 && ctx.Energy < ctx.WaterEnergyCost {
			return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientEnergy, ctx.Energy, ctx.WaterEnergyCost)
		}
		return nil

	case domain.ActionHarvest:
		if state != domain.SlotReady {
			return illegal(action, state)
		}
		return nil
	}

	return fmt.Errorf("%w: %s does not target a slot", domain.ErrInvalidInput, action)
}

// LegalActions lists the slot actions Check would currently admit
func LegalActions(slot domain.Slot, ctx Context) []domain.ActionType {
	var out []domain.ActionType
	for _, a := range domain.SlotActions {
		if Check(a, slot, ctx) == nil {
			out = append(out, a)
		}
	}
	return out
}

// Apply returns the slot as it will look once action succeeds on chain. It is
// used for optimistic display until the indexer catches up.
func Apply(action domain.ActionType, slot domain.Slot, now time.Time) (domain.Slot, error) {
	state := Classify(slot)
	next := slot

	switch {
	case action == domain.ActionPlant && state == domain.SlotEmpty:
		next.Tick = 0
		next.State = domain.SlotGrowing
		next.LastAction = now

	case action == domain.ActionWater && state == domain.SlotGrowing:
		next.Tick = slot.Tick + 1
		next.LastAction = now
		next.State = domain.SlotGrowing
		if slot.TickGoal > 0 && next.Tick >= slot.TickGoal {
			next.Tick = slot.TickGoal
			next.State = domain.SlotReady
		}

	case action == domain.ActionHarvest && state == domain.SlotReady:
		next = domain.Slot{Index: slot.Index, State: domain.SlotEmpty}

	default:
		return slot, illegal(action, state)
	}
	return next, nil
}

// CanUnstake reports whether a plot may be unstaked: no slot may be growing or
// awaiting harvest
func CanUnstake(p domain.Plot) error {
	for _, s := range p.Slots {
		if Classify(s).IsActive() {
			return fmt.Errorf("%w: plot %s slot %d is %s", domain.ErrActiveCrop, p.ID, s.Index, Classify(s))
		}
	}
	return nil
}

func illegal(action domain.ActionType, state domain.SlotState) error {
	return fmt.Errorf("%w: cannot %s a slot in state %s", domain.ErrIllegalTransition, action, state)
}
