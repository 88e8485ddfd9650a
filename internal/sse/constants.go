package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10

	// ReplayBufferSize is how many recent events a resuming client can catch up on
	ReplayBufferSize = 64
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Event types for SSE. Bus-originated events keep their bus type name.
const (
	EventTypeActionResolved = "action.resolved"
	EventTypeClockTick      = "clock.tick"

	// EventTypeConnected is sent once when a client attaches
	EventTypeConnected = "connected"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Request parameters
const (
	QueryParamTypes   = "types"
	HeaderLastEventID = "Last-Event-ID"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgInvalidPayload     = "Invalid event payload for SSE"
	LogMsgSubscriberReady    = "SSE subscriber registered for event types"
)
