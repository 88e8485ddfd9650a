package refresh

// Log messages
const (
	LogMsgAttemptFailed  = "Refresh attempt failed"
	LogMsgTaskCancelled  = "Refresh task cancelled"
	LogMsgTaskCompleted  = "Refresh task completed"
	LogMsgTaskSuperseded = "Refresh task superseded by a newer one"
)

// Error messages
const (
	ErrMsgAllAttemptsFailed = "all %d refresh attempts failed: %v"
)
