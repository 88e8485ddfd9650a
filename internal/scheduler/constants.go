package scheduler

// Log messages
const (
	LogMsgJobDropped = "Scheduled job dropped"
	LogMsgJobFailed  = "Scheduled job failed"
)
