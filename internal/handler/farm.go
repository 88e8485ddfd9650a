package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/farm"
	"github.com/osse101/farmclock/internal/journal"
	"github.com/osse101/farmclock/internal/logger"
)

// URL parameters
const (
	URLParamFarmID = "farmID"
	URLParamAction = "action"
)

// ActionBody is the POST body of /actions/{action}. The action comes from the URL.
type ActionBody struct {
	FarmID     string        `json:"farm_id" validate:"required,max=64"`
	PlotID     string        `json:"plot_id,omitempty" validate:"max=64"`
	Slot       *int          `json:"slot,omitempty" validate:"omitempty,min=0,max=64"`
	AssetIDs   []string      `json:"asset_ids,omitempty" validate:"omitempty,max=50,dive,numeric"`
	Amount     string        `json:"amount,omitempty" validate:"max=40"`
	Proposal   *ProposalBody `json:"proposal,omitempty" validate:"omitempty"`
	ProposalID string        `json:"proposal_id,omitempty" validate:"max=64"`
	Approve    bool          `json:"approve,omitempty"`
}

// ActionResponse wraps the outcome, including for rejected or failed submissions
type ActionResponse struct {
	Error   string        `json:"error,omitempty"`
	Outcome *farm.Outcome `json:"outcome,omitempty"`
}

// HandleFarm renders the slot views of a farm
func HandleFarm(svc farm.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Farm(r.Context(), chi.URLParam(r, URLParamFarmID))
		if err != nil {
			respondServiceError(w, r, "Farm view", err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}

// HandleAction submits one action. A cancelled wallet prompt is a 200 with
// outcome "cancelled"; a contract rejection returns its message with the outcome.
func HandleAction(svc farm.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action, err := domain.ParseActionType(chi.URLParam(r, URLParamAction))
		if err != nil {
			respondError(w, http.StatusNotFound, ErrMsgUnknownAction)
			return
		}

		var body ActionBody
		if err := DecodeAndValidateRequest(r, w, &body, string(action)); err != nil {
			return
		}

		req := farm.ActionRequest{
			Action:     action,
			FarmID:     body.FarmID,
			PlotID:     body.PlotID,
			Slot:       domain.PlotLevel,
			AssetIDs:   body.AssetIDs,
			Amount:     body.Amount,
			ProposalID: body.ProposalID,
			Approve:    body.Approve,
		}
		if body.Slot != nil {
			req.Slot = *body.Slot
		}
		if body.Proposal != nil {
			p := body.Proposal.toProposal()
			req.Proposal = &p
		}

		out, err := svc.Execute(r.Context(), req)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			if out == nil {
				respondServiceError(w, r, LogMsgActionFailed, err)
				return
			}
			logger.FromContext(r.Context()).Info(LogMsgActionFailed, "key", out.Key, "outcome", out.Outcome, "error", err)
			respondJSON(w, status, ActionResponse{Error: msg, Outcome: out})
			return
		}
		respondJSON(w, http.StatusOK, ActionResponse{Outcome: out})
	}
}

// PendingResponse lists in-flight action keys
type PendingResponse struct {
	Keys []string `json:"keys"`
}

// HandlePending lists the action keys currently in flight
func HandlePending(svc farm.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys := svc.Pending()
		resp := PendingResponse{Keys: make([]string, 0, len(keys))}
		for _, k := range keys {
			resp.Keys = append(resp.Keys, k.String())
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleJournal lists recent submissions, newest first
func HandleJournal(svc farm.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(w, r, journal.DefaultRecentLimit)
		if !ok {
			return
		}
		entries, err := svc.Journal(r.Context(), limit)
		if err != nil {
			respondServiceError(w, r, "Journal", err)
			return
		}
		if entries == nil {
			entries = []journal.Entry{}
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: entries})
	}
}
