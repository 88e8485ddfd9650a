package chainclock

import "time"

// DefaultFetchTimeout bounds one head-block time request
const DefaultFetchTimeout = 5 * time.Second

// Log messages
const (
	LogMsgClockStarted       = "Chain clock started"
	LogMsgClockStopped       = "Chain clock stopped"
	LogMsgClockSynced        = "Chain clock synced"
	LogMsgClockRefreshFailed = "Chain clock refresh failed, keeping last value"
	LogMsgClockStale         = "Chain clock is stale, showing last known time"
	LogMsgPublishFailed      = "Failed to publish clock event"
)
