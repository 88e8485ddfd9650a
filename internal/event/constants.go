package event

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// Error messages
const (
	// LogMsgHandlerErrorFormat wraps handler failures returned from Publish
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
	ErrMsgDecodePayload      = "failed to decode event payload: %w"
)
