package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/farmclock/internal/chainclock"
	"github.com/osse101/farmclock/internal/logger"
)

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Pinger is a dependency that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// ClockStatus reports the chain clock state
type ClockStatus interface {
	Status() chainclock.Status
}

// HandleHealthz provides a basic liveness check
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: HealthStatusOK})
	}
}

// HandleReadyz reports ready once the journal is reachable and the chain
// clock has synced and is not stale
func HandleReadyz(journal Pinger, clock ClockStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		msg := ""
		if err := journal.Ping(ctx); err != nil {
			logger.FromContext(ctx).Error(LogMsgReadinessFailed, "error", err)
			msg = HealthMsgJournalDown
		} else if st := clock.Status(); !st.Synced {
			msg = HealthMsgClockUnsynced
		} else if st.Stale {
			msg = HealthMsgClockStale
		}

		if msg != "" {
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: HealthStatusUnavailable, Message: msg})
			return
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: HealthStatusOK})
	}
}
