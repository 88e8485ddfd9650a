package worker

// Error messages
const (
	ErrMsgPoolStopped = "worker pool stopped"
	ErrMsgQueueFull   = "worker queue full"
)

// Log messages
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgPoolStopped     = "Worker pool stopped"
)
