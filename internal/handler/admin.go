package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/osse101/farmclock/internal/logger"
)

// ClockRefresher can force an immediate chain time fetch
type ClockRefresher interface {
	ClockStatus
	Refresh(ctx context.Context) error
}

// EventHub is the SSE hub as seen by the admin endpoints
type EventHub interface {
	ClientCount() int
	Dropped() int64
	Broadcast(eventType string, payload interface{})
}

// AdminSSEBroadcastRequest represents the request to broadcast an SSE event
type AdminSSEBroadcastRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SSEStatsResponse reports SSE fan-out health
type SSEStatsResponse struct {
	Clients int   `json:"clients"`
	Dropped int64 `json:"dropped"`
}

// AdminHandler serves operator endpoints under /api/v1/admin
type AdminHandler struct {
	clock ClockRefresher
	hub   EventHub
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(clock ClockRefresher, hub EventHub) *AdminHandler {
	return &AdminHandler{clock: clock, hub: hub}
}

// HandleClockRefresh fetches the chain time now instead of waiting for the next poll
// POST /api/v1/admin/clock/refresh
func (h *AdminHandler) HandleClockRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.clock.Refresh(r.Context()); err != nil {
		respondServiceError(w, r, "ClockRefresh", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgClockRefreshed)
	respondJSON(w, http.StatusOK, toClockResponse(h.clock.Status()))
}

// HandleSSEStats reports connected clients and dropped events
// GET /api/v1/admin/sse
func (h *AdminHandler) HandleSSEStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SSEStatsResponse{
		Clients: h.hub.ClientCount(),
		Dropped: h.hub.Dropped(),
	})
}

// HandleBroadcast broadcasts a manual event to all SSE clients
// POST /api/v1/admin/sse/broadcast
func (h *AdminHandler) HandleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req AdminSSEBroadcastRequest
	if err := DecodeAndValidateRequest(r, w, &req, "BroadcastSSE"); err != nil {
		return
	}

	if req.Type == "" {
		respondError(w, http.StatusBadRequest, ErrMsgEventTypeRequired)
		return
	}

	var payload interface{}
	if len(req.Payload) > 0 {
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidPayload)
			return
		}
	}

	h.hub.Broadcast(req.Type, payload)
	logger.FromContext(r.Context()).Info(LogMsgAdminBroadcast, "type", req.Type)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Event broadcasted successfully",
		"type":    req.Type,
	})
}
