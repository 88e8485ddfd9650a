package handler

import (
	"net/http"

	"github.com/osse101/farmclock/internal/memo"
)

// ProposalBody carries the user-entered proposal fields. The proposing actor
// is always the configured wallet account.
type ProposalBody struct {
	Collection string `json:"collection" validate:"required,max=12"`
	TemplateID string `json:"template_id" validate:"required,numeric"`
	Fee        string `json:"fee" validate:"required,max=40"`
	Reward     string `json:"reward" validate:"required,max=40"`
	Cap        int64  `json:"cap" validate:"gt=0"`
}

func (p ProposalBody) toProposal() memo.Proposal {
	return memo.Proposal{
		Collection: p.Collection,
		TemplateID: p.TemplateID,
		Fee:        p.Fee,
		Reward:     p.Reward,
		Cap:        p.Cap,
	}
}

// MemoPreviewRequest asks for an encoded memo and/or amount without submitting
type MemoPreviewRequest struct {
	Verb     string        `json:"verb,omitempty" validate:"memoverb"`
	Parts    []string      `json:"parts,omitempty" validate:"max=32"`
	Amount   string        `json:"amount,omitempty" validate:"max=40"`
	Actor    string        `json:"actor,omitempty" validate:"max=12"`
	Proposal *ProposalBody `json:"proposal,omitempty" validate:"omitempty"`
}

// MemoPreviewResponse shows exactly what would be sent on chain
type MemoPreviewResponse struct {
	Memo       string   `json:"memo,omitempty"`
	Fields     []string `json:"fields,omitempty"`
	FixedPoint string   `json:"fixed_point,omitempty"`
	Asset      string   `json:"asset,omitempty"`
}

// HandleMemoPreview encodes memos and amounts with the configured token
// precision and symbol
func HandleMemoPreview(symbol string, precision int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MemoPreviewRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Memo preview"); err != nil {
			return
		}

		var resp MemoPreviewResponse
		var err error
		switch {
		case req.Proposal != nil:
			p := req.Proposal.toProposal()
			p.Actor = req.Actor
			resp.Memo, err = memo.ProposeMemo(p, precision)
			resp.Fields = memo.Fields(memo.VerbPropose)
		case req.Verb != "":
			resp.Memo, err = memo.BuildMemo(memo.Verb(req.Verb), req.Parts...)
			resp.Fields = memo.Fields(memo.Verb(req.Verb))
		}
		if err != nil {
			respondServiceError(w, r, "Memo preview", err)
			return
		}

		if req.Amount != "" {
			if resp.FixedPoint, err = memo.ToFixedPointString(req.Amount, precision); err != nil {
				respondServiceError(w, r, "Memo preview", err)
				return
			}
			if resp.Asset, err = memo.ToAssetString(req.Amount, symbol, precision); err != nil {
				respondServiceError(w, r, "Memo preview", err)
				return
			}
		}

		respondJSON(w, http.StatusOK, resp)
	}
}
