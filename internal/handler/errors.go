package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgUnknownAction         = "Unknown action"
	ErrMsgEventTypeRequired     = "Event type is required"
	ErrMsgInvalidPayload        = "Invalid payload JSON"
)

// User-facing messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgUnavailableError   = "Chain or indexer is temporarily unavailable. Please try again."
	ErrMsgActionPendingError = "That action is already in progress"
	ErrMsgNotFoundError      = "Not found"
)

// Health messages
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
	HealthMsgJournalDown    = "journal unavailable"
	HealthMsgClockStale     = "chain clock is stale"
	HealthMsgClockUnsynced  = "chain clock has not synced yet"
)

// Log messages
const (
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgActionFailed    = "Action failed"
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
	LogMsgClockRefreshed  = "Chain clock refreshed by admin"
	LogMsgAdminBroadcast  = "Admin SSE broadcast"
)
