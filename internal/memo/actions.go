package memo

import (
	"fmt"
	"strconv"

	"github.com/osse101/farmclock/internal/domain"
)

// StakeMemo encodes "stake:<farm_id>:<asset_id>[:<asset_id>...]"
func StakeMemo(farmID string, assetIDs ...string) (string, error) {
	return BuildMemo(VerbStake, append([]string{farmID}, assetIDs...)...)
}

// PlantMemo encodes "plant:<plot_id>:<slot>"
func PlantMemo(plotID string, slot int) (string, error) {
	if slot < 0 {
		return "", fmt.Errorf("%w: "+ErrFmtInvalidField, domain.ErrInvalidInput, "slot", strconv.Itoa(slot))
	}
	return BuildMemo(VerbPlant, plotID, strconv.Itoa(slot))
}

// DepositMemo encodes "deposit:<farm_id>"
func DepositMemo(farmID string) (string, error) {
	return BuildMemo(VerbDeposit, farmID)
}

// RechargeMemo encodes "recharge:<farm_id>"
func RechargeMemo(farmID string) (string, error) {
	return BuildMemo(VerbRecharge, farmID)
}

// Proposal holds the user-entered fields of a template proposal. Fee and Reward
// are decimals; they travel as raw fixed-point integers.
type Proposal struct {
	Actor      string `json:"actor" validate:"required"`
	Collection string `json:"collection" validate:"required"`
	TemplateID string `json:"template_id" validate:"required,numeric"`
	Fee        string `json:"fee" validate:"required"`
	Reward     string `json:"reward" validate:"required"`
	Cap        int64  `json:"cap" validate:"gt=0"`
}

// ProposeMemo encodes
// "propose:<actor>:<collection>:<template_id>:<raw_fee_int>:<raw_reward_int>:<cap_int>"
func ProposeMemo(p Proposal, precision int) (string, error) {
	if !allDigits(p.TemplateID) || p.TemplateID == "" {
		return "", fmt.Errorf("%w: "+ErrFmtInvalidField, domain.ErrInvalidInput, "template_id", p.TemplateID)
	}
	if p.Cap <= 0 {
		return "", fmt.Errorf("%w: "+ErrFmtInvalidField, domain.ErrInvalidInput, "cap", strconv.FormatInt(p.Cap, 10))
	}

	fee, err := ToFixedPointString(p.Fee, precision)
	if err != nil {
		return "", fmt.Errorf("fee: %w", err)
	}
	reward, err := ToFixedPointString(p.Reward, precision)
	if err != nil {
		return "", fmt.Errorf("reward: %w", err)
	}

	return BuildMemo(VerbPropose, p.Actor, p.Collection, p.TemplateID, fee, reward, strconv.FormatInt(p.Cap, 10))
}

// VoteMemo encodes "vote:<proposal_id>:<yes|no>"
func VoteMemo(proposalID string, approve bool) (string, error) {
	choice := VoteNo
	if approve {
		choice = VoteYes
	}
	return BuildMemo(VerbVote, proposalID, choice)
}
