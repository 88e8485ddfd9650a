package bootstrap

import "time"

// Service name attached to every log record
const ServiceName = "farmclock"

// Startup log messages
const (
	LogMsgStarting            = "Starting farmclock"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
	LogMsgReadOnly            = "No wallet account configured, running read-only"
	LogMsgJournalOpened       = "Journal opened"
	LogMsgEventSystemReady    = "Event system initialized"
	LogMsgMetricsRegistered   = "Metrics collector registered"
	LogMsgSSESubscribed       = "SSE subscriber registered"
	LogMsgJobFailed           = "Background job failed"
)

// Shutdown log messages
const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgServerStopped        = "Server stopped"
	LogMsgServiceShutdownFail  = "Service shutdown failed"
	LogMsgJournalCloseFailed   = "Journal close failed"
)

// Error prefixes for wiring failures
const (
	ErrMsgOpenJournal      = "failed to open journal"
	ErrMsgRegisterMetrics  = "failed to register metrics collector"
)

// FetchTimeout bounds a single chain time fetch
const FetchTimeout = 5 * time.Second
