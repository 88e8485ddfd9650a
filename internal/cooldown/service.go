package cooldown

import (
	"fmt"
	"time"

	"github.com/osse101/farmclock/internal/domain"
)

// State classifies a slot's watering cooldown
type State string

const (
	// NotApplicable means the cooldown cannot be computed (slot not growing, or no
	// per-tick duration known). Callers must not block the action on it.
	NotApplicable State = "NOT_APPLICABLE"
	// Counting means the cooldown is still running
	Counting State = "COUNTING"
	// Ready means the slot may be watered
	Ready State = "READY"
)

// Result is the outcome of a cooldown calculation
type Result struct {
	State     State         `json:"state"`
	Remaining time.Duration `json:"-"`
	Deadline  time.Time     `json:"deadline,omitempty"`
}

// Label renders the remaining time as m:ss, or "" when not counting
func (r Result) Label() string {
	if r.State != Counting {
		return ""
	}
	return FormatRemaining(r.Remaining)
}

// Blocks reports whether the result forbids watering right now
func (r Result) Blocks() bool {
	return r.State == Counting
}

// WaterCooldownRemaining computes how long until the slot may be watered, using
// now as read from the chain clock. It is pure: the same inputs always give the
// same output.
//
// deadline = LastAction + SecondsPerTick seconds; Ready exactly when now >= deadline.
func WaterCooldownRemaining(slot domain.Slot, now time.Time) Result {
	if slot.State != domain.SlotGrowing || slot.SecondsPerTick <= 0 || slot.LastAction.IsZero() {
		return Result{State: NotApplicable}
	}

	deadline := slot.LastAction.Add(time.Duration(slot.SecondsPerTick) * time.Second)
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return Result{State: Ready, Deadline: deadline}
	}
	return Result{State: Counting, Remaining: remaining, Deadline: deadline}
}

// FormatRemaining renders d as m:ss, rounding partial seconds up so a running
// countdown never displays 0:00
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return fmt.Sprintf(LabelFormat, 0, 0)
	}
	secs := int64((d + time.Second - 1) / time.Second)
	return fmt.Sprintf(LabelFormat, secs/SecondsPerMinute, secs%SecondsPerMinute)
}

// Check returns ErrOnCooldown when the result blocks the action
func Check(action domain.ActionType, r Result) error {
	if r.Blocks() {
		return ErrOnCooldown{Action: string(action), Remaining: r.Remaining}
	}
	return nil
}

// ErrOnCooldown is returned when action is still on cooldown
type ErrOnCooldown struct {
	Action    string
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	minutes := int(e.Remaining.Minutes())
	seconds := int(e.Remaining.Seconds()) % SecondsPerMinute

	if minutes > 0 {
		return domain.ErrMsgOnCooldown + ": " + fmt.Sprintf(ErrFmtCooldownWithMinutes, e.Action, minutes, seconds)
	}
	return domain.ErrMsgOnCooldown + ": " + fmt.Sprintf(ErrFmtCooldownSecondsOnly, e.Action, seconds)
}

// Is allows errors.Is() to match another ErrOnCooldown and the domain cooldown
// error, so callers can treat it as an illegal state transition
func (e ErrOnCooldown) Is(target error) bool {
	if _, ok := target.(ErrOnCooldown); ok {
		return true
	}
	return target == domain.ErrOnCooldown || target == domain.ErrIllegalTransition
}
