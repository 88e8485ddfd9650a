package domain

import (
	"fmt"
	"strconv"
)

// ActionType names a user-triggered farm action
type ActionType string

const (
	ActionPlant    ActionType = "plant"
	ActionWater    ActionType = "water"
	ActionHarvest  ActionType = "harvest"
	ActionStake    ActionType = "stake"
	ActionUnstake  ActionType = "unstake"
	ActionRecharge ActionType = "recharge"
	ActionDeposit  ActionType = "deposit"
	ActionPropose  ActionType = "propose"
	ActionVote     ActionType = "vote"
)

// PlotLevel is the slot index of keys that do not address a single slot
const PlotLevel = -1

// SlotActions are the actions that target a single slot
var SlotActions = []ActionType{ActionPlant, ActionWater, ActionHarvest}

// IsSlotAction reports whether the action addresses a specific slot
func (a ActionType) IsSlotAction() bool {
	switch a {
	case ActionPlant, ActionWater, ActionHarvest:
		return true
	default:
		return false
	}
}

// ParseActionType validates a raw action name
func ParseActionType(s string) (ActionType, error) {
	switch a := ActionType(s); a {
	case ActionPlant, ActionWater, ActionHarvest, ActionStake, ActionUnstake,
		ActionRecharge, ActionDeposit, ActionPropose, ActionVote:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidInput, s)
}

// SlotRef addresses one slot of one plot
type SlotRef struct {
	PlotID    string `json:"plot_id"`
	SlotIndex int    `json:"slot"`
}

// KeyScope names the kind of resource an ActionKey locks. Targets of
// different scopes never conflict, even when their ids are equal.
type KeyScope string

const (
	ScopeSlot     KeyScope = "slot"
	ScopePlot     KeyScope = "plot"
	ScopeFarm     KeyScope = "farm"
	ScopeTemplate KeyScope = "template"
	ScopeProposal KeyScope = "proposal"
)

// OnPlot reports whether keys of this scope lock all or part of a plot
func (s KeyScope) OnPlot() bool {
	return s == ScopeSlot || s == ScopePlot
}

// ActionKey identifies an in-flight action. Two submissions with equal keys must
// never be in flight at the same time. Target is the plot id for slot and plot
// scopes and the farm, template or proposal id otherwise.
type ActionKey struct {
	Action    ActionType `json:"action"`
	Scope     KeyScope   `json:"scope"`
	Target    string     `json:"target"`
	SlotIndex int        `json:"slot"`
}

// NewSlotKey builds a key for a slot-level action
func NewSlotKey(action ActionType, plotID string, slot int) ActionKey {
	return ActionKey{Action: action, Scope: ScopeSlot, Target: plotID, SlotIndex: slot}
}

// NewPlotKey builds a key for an action that addresses a whole plot
func NewPlotKey(action ActionType, plotID string) ActionKey {
	return ActionKey{Action: action, Scope: ScopePlot, Target: plotID, SlotIndex: PlotLevel}
}

// NewFarmKey builds a key for an action on the farm itself (stake, recharge,
// deposit)
func NewFarmKey(action ActionType, farmID string) ActionKey {
	return ActionKey{Action: action, Scope: ScopeFarm, Target: farmID, SlotIndex: PlotLevel}
}

// NewTemplateKey builds a key for a proposal on a seed template
func NewTemplateKey(action ActionType, collection, templateID string) ActionKey {
	return ActionKey{Action: action, Scope: ScopeTemplate, Target: collection + "/" + templateID, SlotIndex: PlotLevel}
}

// NewProposalKey builds a key for a vote on a proposal
func NewProposalKey(action ActionType, proposalID string) ActionKey {
	return ActionKey{Action: action, Scope: ScopeProposal, Target: proposalID, SlotIndex: PlotLevel}
}

// PlotID returns the plot the key touches, or "" when it addresses no plot
func (k ActionKey) PlotID() string {
	if k.Scope.OnPlot() {
		return k.Target
	}
	return ""
}

// Slot returns the slot the key addresses
func (k ActionKey) Slot() SlotRef {
	return SlotRef{PlotID: k.PlotID(), SlotIndex: k.SlotIndex}
}

// IsPlotLevel reports whether the key addresses a whole plot
func (k ActionKey) IsPlotLevel() bool {
	return k.Scope == ScopePlot
}

// String renders slot keys as "{type}-{plotId}-{slotIndex}", plot keys as
// "{type}-{plotId}-plot" and the rest as "{type}-{scope}-{target}".
func (k ActionKey) String() string {
	switch k.Scope {
	case ScopeSlot:
		return string(k.Action) + "-" + k.Target + "-" + strconv.Itoa(k.SlotIndex)
	case ScopePlot:
		return string(k.Action) + "-" + k.Target + "-plot"
	default:
		return string(k.Action) + "-" + string(k.Scope) + "-" + k.Target
	}
}
