package handler

import (
	"net/http"
	"time"

	"github.com/osse101/farmclock/internal/chainclock"
)

// ClockResponse is the chain clock as shown to clients
type ClockResponse struct {
	Now                 time.Time `json:"now"`
	NowUnix             int64     `json:"now_unix"`
	LastSync            time.Time `json:"last_sync"`
	Synced              bool      `json:"synced"`
	Stale               bool      `json:"stale"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	SkewMillis          int64     `json:"skew_ms"`
}

// HandleClock returns the current chain time estimate
func HandleClock(clock ClockStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, toClockResponse(clock.Status()))
	}
}

func toClockResponse(st chainclock.Status) ClockResponse {
	return ClockResponse{
		Now:                 st.Now,
		NowUnix:             st.Now.Unix(),
		LastSync:            st.LastSync,
		Synced:              st.Synced,
		Stale:               st.Stale,
		ConsecutiveFailures: st.ConsecutiveFailures,
		SkewMillis:          st.SkewMillis,
	}
}
