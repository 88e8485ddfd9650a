package sse

import (
	"context"

	"github.com/osse101/farmclock/internal/event"
	"github.com/osse101/farmclock/internal/logger"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe(ctx context.Context) {
	s.bus.Subscribe(event.ActionSubmitted, s.handleAction)
	s.bus.Subscribe(event.ActionResolved, s.handleAction)
	s.bus.Subscribe(event.ClockTick, s.handleClock)
	s.bus.Subscribe(event.ClockStale, s.handleClock)
	s.bus.Subscribe(event.RefreshCompleted, s.handleRefresh)

	logger.FromContext(ctx).Info(LogMsgSubscriberReady, "types", event.AllTypes)
}

func (s *Subscriber) handleAction(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.ActionPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(string(evt.Type), ActionPayload{
		Key:     p.Key,
		Action:  p.Action,
		PlotID:  p.PlotID,
		Slot:    p.Slot,
		Outcome: p.Outcome,
		Message: p.Message,
		TxID:    p.TxID,
	})

	logger.FromContext(ctx).Debug(LogMsgEventBroadcast, "event_type", evt.Type, "key", p.Key)
	return nil
}

func (s *Subscriber) handleClock(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.ClockPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(string(evt.Type), ClockPayload{
		Now:     p.Now,
		NowUnix: p.Now.Unix(),
		Stale:   p.Stale,
	})
	return nil
}

func (s *Subscriber) handleRefresh(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.RefreshPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(string(evt.Type), RefreshPayload{
		FarmID:    p.FarmID,
		Attempts:  p.Attempts,
		Successes: p.Successes,
		Cancelled: p.Cancelled,
	})

	logger.FromContext(ctx).Debug(LogMsgEventBroadcast, "event_type", evt.Type, "farm_id", p.FarmID)
	return nil
}
