package domain

import "time"

// SlotState is the growth phase of a single planting slot
type SlotState string

const (
	SlotEmpty   SlotState = "EMPTY"
	SlotGrowing SlotState = "GROWING"
	SlotReady   SlotState = "READY"
)

// IsActive reports whether the slot holds a crop (growing or awaiting harvest)
func (s SlotState) IsActive() bool {
	return s == SlotGrowing || s == SlotReady
}

// Farm represents a staked farm as reported by the indexer
type Farm struct {
	ID        string   `json:"farm_id"`
	Owner     string   `json:"owner"`
	PlotIDs   []string `json:"plots"`
	Energy    int64    `json:"energy"`
	MaxEnergy int64    `json:"max_energy"`
}

// Plot is a plot NFT staked to a farm
type Plot struct {
	ID       string `json:"plot_id"`
	FarmID   string `json:"farm_id"`
	Capacity int    `json:"capacity"`
	Slots    []Slot `json:"slots"`
}

// Slot is one planting position within a plot.
// Invariant: 0 <= Tick <= TickGoal once a seed is planted.
type Slot struct {
	Index          int       `json:"index"`
	State          SlotState `json:"state"`
	Tick           int       `json:"tick"`
	TickGoal       int       `json:"tick_goal"`
	LastAction     time.Time `json:"last_action"`
	SecondsPerTick int64     `json:"seconds_per_tick"`
	SeedTemplateID string    `json:"seed_tpl_id,omitempty"`
}

// HasSeed reports whether seed metadata is attached to the slot
func (s Slot) HasSeed() bool {
	return s.SeedTemplateID != "" && s.SeedTemplateID != "0"
}

// FindSlot returns the slot with the given index
func (p Plot) FindSlot(index int) (Slot, bool) {
	for _, s := range p.Slots {
		if s.Index == index {
			return s, true
		}
	}
	return Slot{}, false
}

// Seed is a plantable seed asset held by the account
type Seed struct {
	AssetID    string `json:"asset_id"`
	TemplateID string `json:"template_id"`
}

// Inventory is the account's snapshot of plantable seeds and token balance
type Inventory struct {
	Account string `json:"account"`
	Seeds   []Seed `json:"seeds"`
	Balance string `json:"balance"`
}

// SeedsAvailable returns the number of seeds that can be planted
func (inv *Inventory) SeedsAvailable() int {
	if inv == nil {
		return 0
	}
	return len(inv.Seeds)
}
