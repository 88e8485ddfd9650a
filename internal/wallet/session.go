// Package wallet hands transactions to an external wallet session for signing
// and broadcast, and classifies what comes back.
package wallet

import (
	"context"
	"fmt"
)

// Authorization names the signer of an action
type Authorization struct {
	Actor      string `json:"actor"`
	Permission string `json:"permission"`
}

// Action is one contract action inside a transaction
type Action struct {
	Account       string          `json:"account"`
	Name          string          `json:"name"`
	Authorization []Authorization `json:"authorization"`
	Data          any             `json:"data"`
}

// TransferData is the payload of a token or NFT transfer carrying a memo
type TransferData struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Quantity string   `json:"quantity,omitempty"`
	AssetIDs []string `json:"asset_ids,omitempty"`
	Memo     string   `json:"memo"`
}

// SlotData is the payload of a direct per-slot contract action
type SlotData struct {
	Owner  string `json:"owner"`
	PlotID string `json:"plot_id"`
	Slot   int    `json:"slot"`
}

// PlotData is the payload of a direct per-plot contract action
type PlotData struct {
	Owner  string `json:"owner"`
	PlotID string `json:"plot_id"`
}

// Receipt is returned once the transaction was broadcast
type Receipt struct {
	TransactionID string `json:"transaction_id"`
}

// Session signs and broadcasts transactions. Implementations may block for as
// long as the user takes to approve; once broadcast a transaction cannot be
// recalled.
type Session interface {
	Actor() string
	Transact(ctx context.Context, actions []Action) (Receipt, error)
}

// Auth returns the default active authorization for actor
func Auth(actor string) []Authorization {
	return []Authorization{{Actor: actor, Permission: PermissionActive}}
}

// NewTransfer builds a transfer action on contract
func NewTransfer(contract, from, to string, data TransferData) Action {
	data.From, data.To = from, to
	return Action{
		Account:       contract,
		Name:          ActionNameTransfer,
		Authorization: Auth(from),
		Data:          data,
	}
}

// NewContractAction builds a direct action on contract signed by actor
func NewContractAction(contract, name, actor string, data any) Action {
	return Action{
		Account:       contract,
		Name:          name,
		Authorization: Auth(actor),
		Data:          data,
	}
}

// Describe renders actions for logs
func Describe(actions []Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, fmt.Sprintf("%s::%s", a.Account, a.Name))
	}
	return out
}
