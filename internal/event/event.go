package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Event types
const (
	ActionSubmitted  Type = "action.submitted"
	ActionResolved   Type = "action.resolved"
	ClockTick        Type = "clock.tick"
	ClockStale       Type = "clock.stale"
	RefreshCompleted Type = "refresh.completed"
)

// AllTypes lists every event type published by the scheduler
var AllTypes = []Type{ActionSubmitted, ActionResolved, ClockTick, ClockStale, RefreshCompleted}

// Typed event payloads for type safety

// ActionPayloadV1 describes one wallet submission
type ActionPayloadV1 struct {
	EntryID   string `json:"entry_id"`
	Key       string `json:"key"`
	Action    string `json:"action"`
	FarmID    string `json:"farm_id,omitempty"`
	PlotID    string `json:"plot_id"`
	Slot      int    `json:"slot"`
	Memo      string `json:"memo,omitempty"`
	TxID      string `json:"tx_id,omitempty"`
	Outcome   string `json:"outcome"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ClockPayloadV1 is a ChainClock reading
type ClockPayloadV1 struct {
	Now                 time.Time `json:"now"`
	LastSync            time.Time `json:"last_sync"`
	Stale               bool      `json:"stale"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	SkewMillis          int64     `json:"skew_ms"`
}

// RefreshPayloadV1 summarizes a finished post-action refresh
type RefreshPayloadV1 struct {
	FarmID    string `json:"farm_id"`
	Attempts  int    `json:"attempts"`
	Successes int    `json:"successes"`
	Cancelled bool   `json:"cancelled"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewActionEvent creates an action.submitted or action.resolved event
func NewActionEvent(t Type, payload ActionPayloadV1) Event {
	if payload.Timestamp == 0 {
		payload.Timestamp = time.Now().Unix()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: payload,
		Metadata: map[string]interface{}{
			"key": payload.Key,
		},
	}
}

// NewClockEvent creates a clock.tick or clock.stale event
func NewClockEvent(t Type, payload ClockPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: payload,
	}
}

// NewRefreshCompletedEvent creates a refresh.completed event
func NewRefreshCompletedEvent(payload RefreshPayloadV1) Event {
	if payload.Timestamp == 0 {
		payload.Timestamp = time.Now().Unix()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    RefreshCompleted,
		Payload: payload,
		Metadata: map[string]interface{}{
			"farm_id": payload.FarmID,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
	onError  func(Type, error)
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// OnHandlerError registers a hook called for every handler failure
func (b *MemoryBus) OnHandlerError(fn func(Type, error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onError = fn
}

// Publish publishes an event to all subscribers synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	onError := b.onError
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
			if onError != nil {
				onError(event.Type, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Discard is a Bus that drops every event
type Discard struct{}

// Publish drops the event
func (Discard) Publish(context.Context, Event) error { return nil }

// Subscribe ignores the handler
func (Discard) Subscribe(Type, Handler) {}
