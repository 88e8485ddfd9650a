package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/farmclock/internal/event"
	"github.com/osse101/farmclock/internal/metrics"
	"github.com/osse101/farmclock/internal/sse"
)

// InitializeEventSystem creates the event bus and attaches the metrics
// collector and, when hub is non-nil, the SSE bridge
func InitializeEventSystem(ctx context.Context, hub *sse.Hub) (event.Bus, error) {
	bus := event.NewMemoryBus()

	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(bus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsRegistered)

	if hub != nil {
		sse.NewSubscriber(hub, bus).Subscribe(ctx)
		slog.Info(LogMsgSSESubscribed)
	}

	slog.Info(LogMsgEventSystemReady)
	return bus, nil
}
