package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/farmclock/internal/chainclock"
	"github.com/osse101/farmclock/internal/farm"
	"github.com/osse101/farmclock/internal/journal"
	"github.com/osse101/farmclock/internal/server"
	"github.com/osse101/farmclock/internal/sse"
	"github.com/osse101/farmclock/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server  *server.Server
	Farm    farm.Service
	Clock   *chainclock.Clock
	Pool    *worker.Pool
	Hub     *sse.Hub
	Journal journal.Store
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Farm service (cancel outstanding refreshes)
// 3. Clock, worker pool and SSE hub
// 4. Journal (after the last write)
//
// Errors are logged and do not stop the sequence. Nil components are skipped.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Farm != nil {
		shutdownService(ctx, "farm", c.Farm)
	}
	if c.Clock != nil {
		c.Clock.Stop(ctx)
	}
	if c.Pool != nil {
		c.Pool.Stop()
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.Journal != nil {
		if err := c.Journal.Close(); err != nil {
			slog.Error(LogMsgJournalCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}

type shutdownableService interface {
	Shutdown(context.Context) error
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(LogMsgServiceShutdownFail, "service", name, "error", err)
	}
}
