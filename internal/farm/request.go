package farm

import (
	"fmt"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/memo"
)

// ActionRequest is a user-triggered action. Which fields are used depends on Action.
type ActionRequest struct {
	Action     domain.ActionType `json:"action"`
	FarmID     string            `json:"farm_id" validate:"required,max=64"`
	PlotID     string            `json:"plot_id,omitempty" validate:"max=64"`
	Slot       int               `json:"slot" validate:"min=-1,max=64"`
	AssetIDs   []string          `json:"asset_ids,omitempty" validate:"dive,numeric"`
	Amount     string            `json:"amount,omitempty"`
	Proposal   *memo.Proposal    `json:"proposal,omitempty"`
	ProposalID string            `json:"proposal_id,omitempty"`
	Approve    bool              `json:"approve,omitempty"`
}

// Key derives the gate key for the request. Slot actions lock their slot and
// unstake its plot. Farm-wide actions lock the farm, and governance actions
// their template or proposal.
func (r ActionRequest) Key() (domain.ActionKey, error) {
	if r.FarmID == "" {
		return domain.ActionKey{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgMissingFarm)
	}

	switch r.Action {
	case domain.ActionPlant, domain.ActionWater, domain.ActionHarvest:
		if r.PlotID == "" {
			return domain.ActionKey{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgMissingPlot)
		}
		if r.Slot < 0 {
			return domain.ActionKey{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgMissingSlot)
		}
		return domain.NewSlotKey(r.Action, r.PlotID, r.Slot), nil

	case domain.ActionUnstake:
		if r.PlotID == "" {
			return domain.ActionKey{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgMissingPlot)
		}
		return domain.NewPlotKey(r.Action, r.PlotID), nil

	case domain.ActionStake:
		if len(r.AssetIDs) == 0 {
			return domain.ActionKey{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgMissingAssets)
		}
		return domain.NewFarmKey(r.Action, r.FarmID), nil

	case domain.ActionRecharge, domain.ActionDeposit:
		if r.Amount == "" {
			return domain.ActionKey{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgMissingAmount)
		}
		return domain.NewFarmKey(r.Action, r.FarmID), nil

	case domain.ActionPropose:
		if r.Proposal == nil {
			return domain.ActionKey{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgMissingProposal)
		}
		return domain.NewTemplateKey(r.Action, r.Proposal.Collection, r.Proposal.TemplateID), nil

	case domain.ActionVote:
		if r.ProposalID == "" {
			return domain.ActionKey{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgMissingVote)
		}
		if r.Amount == "" {
			return domain.ActionKey{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgMissingAmount)
		}
		return domain.NewProposalKey(r.Action, r.ProposalID), nil
	}

	return domain.ActionKey{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, r.Action)
}

// Outcome reports what happened to a submitted action
type Outcome struct {
	EntryID string   `json:"entry_id"`
	Key     string   `json:"key"`
	Action  string   `json:"action"`
	Memo    string   `json:"memo,omitempty"`
	Actions []string `json:"actions"`
	TxID    string   `json:"tx_id,omitempty"`
	Outcome string   `json:"outcome"`
	Message string   `json:"message,omitempty"`
	// Projected is the slot as it should read once the indexer catches up
	Projected *domain.Slot `json:"projected,omitempty"`
}
