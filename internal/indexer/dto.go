package indexer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/osse101/farmclock/internal/chain"
	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/growth"
)

// flexID accepts JSON numbers and strings. Asset ids are uint64 on chain and
// indexers disagree on whether to quote them.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// flexInt accepts JSON numbers and numeric strings
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var id flexID
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	if id == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type farmsResponse struct {
	Farms []farmDTO `json:"farms"`
}

type farmDTO struct {
	FarmID    flexID   `json:"farm_id"`
	Owner     string   `json:"owner"`
	Plots     []flexID `json:"plots"`
	Energy    flexInt  `json:"energy"`
	MaxEnergy flexInt  `json:"max_energy"`
}

func (d farmDTO) toDomain() domain.Farm {
	f := domain.Farm{
		ID:        string(d.FarmID),
		Owner:     d.Owner,
		Energy:    int64(d.Energy),
		MaxEnergy: int64(d.MaxEnergy),
		PlotIDs:   make([]string, 0, len(d.Plots)),
	}
	for _, p := range d.Plots {
		f.PlotIDs = append(f.PlotIDs, string(p))
	}
	return f
}

type plotsResponse struct {
	Plots []plotDTO `json:"plots"`
}

type plotDTO struct {
	PlotID   flexID    `json:"plot_id"`
	FarmID   flexID    `json:"farm_id"`
	Capacity int       `json:"capacity"`
	Slots    []slotDTO `json:"slots"`
}

type slotDTO struct {
	Slot           int     `json:"slot"`
	State          string  `json:"state"`
	Tick           flexInt `json:"tick"`
	TickGoal       flexInt `json:"tick_goal"`
	LastAction     string  `json:"last_action"`
	SecondsPerTick flexInt `json:"seconds_per_tick"`
	SeedTemplateID flexID  `json:"seed_tpl_id"`
}

func (d plotDTO) toDomain() (domain.Plot, error) {
	p := domain.Plot{
		ID:       string(d.PlotID),
		FarmID:   string(d.FarmID),
		Capacity: d.Capacity,
		Slots:    make([]domain.Slot, 0, len(d.Slots)),
	}
	for _, s := range d.Slots {
		var last time.Time
		if s.LastAction != "" {
			t, err := chain.ParseChainTime(s.LastAction)
			if err != nil {
				return domain.Plot{}, fmt.Errorf(ErrMsgBadLastAction+": %w", s.Slot, p.ID, err)
			}
			last = t
		}
		p.Slots = append(p.Slots, growth.Normalize(domain.Slot{
			Index:          s.Slot,
			State:          domain.SlotState(s.State),
			Tick:           int(s.Tick),
			TickGoal:       int(s.TickGoal),
			LastAction:     last,
			SecondsPerTick: int64(s.SecondsPerTick),
			SeedTemplateID: string(s.SeedTemplateID),
		}))
	}
	return p, nil
}

type inventoryDTO struct {
	Account string    `json:"account"`
	Balance string    `json:"balance"`
	Seeds   []seedDTO `json:"seeds"`
}

type seedDTO struct {
	AssetID    flexID `json:"asset_id"`
	TemplateID flexID `json:"template_id"`
}

func (d inventoryDTO) toDomain() domain.Inventory {
	inv := domain.Inventory{
		Account: d.Account,
		Balance: d.Balance,
		Seeds:   make([]domain.Seed, 0, len(d.Seeds)),
	}
	for _, s := range d.Seeds {
		inv.Seeds = append(inv.Seeds, domain.Seed{AssetID: string(s.AssetID), TemplateID: string(s.TemplateID)})
	}
	return inv
}
