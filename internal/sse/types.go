package sse

import "time"

// ActionPayload is the SSE view of a submission or its resolution
type ActionPayload struct {
	Key     string `json:"key"`
	Action  string `json:"action"`
	PlotID  string `json:"plot_id"`
	Slot    int    `json:"slot"`
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
	TxID    string `json:"tx_id,omitempty"`
}

// ClockPayload is the SSE view of a chain clock reading
type ClockPayload struct {
	Now     time.Time `json:"now"`
	NowUnix int64     `json:"now_unix"`
	Stale   bool      `json:"stale"`
}

// RefreshPayload tells the UI a farm snapshot was re-fetched
type RefreshPayload struct {
	FarmID    string `json:"farm_id"`
	Attempts  int    `json:"attempts"`
	Successes int    `json:"successes"`
	Cancelled bool   `json:"cancelled"`
}
