package metrics

import (
	"context"

	"github.com/osse101/farmclock/internal/event"
	"github.com/osse101/farmclock/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events. A bus that reports handler failures
// also feeds the handler error counter.
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	if hooked, ok := bus.(interface {
		OnHandlerError(func(event.Type, error))
	}); ok {
		hooked.OnHandlerError(func(t event.Type, _ error) {
			EventHandlerErrors.WithLabelValues(string(t)).Inc()
		})
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.ActionResolved:
		p, err := event.DecodePayload[event.ActionPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
			return nil
		}
		ActionsTotal.WithLabelValues(p.Action, p.Outcome).Inc()

	case event.RefreshCompleted:
		p, err := event.DecodePayload[event.RefreshPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
			return nil
		}
		RefreshAttempts.WithLabelValues(ResultSuccess).Add(float64(p.Successes))
		RefreshAttempts.WithLabelValues(ResultFailure).Add(float64(p.Attempts - p.Successes))

	case event.ClockTick, event.ClockStale:
		p, err := event.DecodePayload[event.ClockPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
			return nil
		}
		ClockSkew.Set(float64(p.SkewMillis) / 1000)
		if p.Stale {
			ClockStale.Set(1)
		} else {
			ClockStale.Set(0)
		}
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
