package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/farmclock/internal/chain"
	"github.com/osse101/farmclock/internal/chainclock"
	"github.com/osse101/farmclock/internal/config"
	"github.com/osse101/farmclock/internal/event"
	"github.com/osse101/farmclock/internal/farm"
	"github.com/osse101/farmclock/internal/gate"
	"github.com/osse101/farmclock/internal/indexer"
	"github.com/osse101/farmclock/internal/journal"
	"github.com/osse101/farmclock/internal/refresh"
	"github.com/osse101/farmclock/internal/server"
	"github.com/osse101/farmclock/internal/sse"
	"github.com/osse101/farmclock/internal/wallet"
	"github.com/osse101/farmclock/internal/worker"
)

// App holds every long-lived component of the daemon
type App struct {
	Config  *config.Config
	Bus     event.Bus
	Clock   *chainclock.Clock
	Indexer *indexer.Client
	Journal journal.Store
	Pool    *worker.Pool
	Hub     *sse.Hub
	Farm    farm.Service
	Server  *server.Server
}

// Build wires the components described by cfg. Nothing is started; call
// Start and then GracefulShutdown.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := journal.Open(ctx, cfg.JournalDSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgOpenJournal, err)
	}
	slog.Info(LogMsgJournalOpened)

	hub := sse.NewHub()
	bus, err := InitializeEventSystem(ctx, hub)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	clock := chainclock.New(chain.NewClient(cfg.ChainRPCURL, cfg.RPCRateLimit), chainclock.Config{
		PollInterval: cfg.ClockPollInterval,
		TickInterval: cfg.ClockTickInterval,
		FetchTimeout: FetchTimeout,
		Bus:          bus,
	})

	idx := indexer.NewClient(indexer.Config{
		BaseURL:   cfg.IndexerURL,
		CacheSize: cfg.IndexerCacheSize,
		CacheTTL:  cfg.IndexerCacheTTL,
		RateLimit: cfg.RPCRateLimit,
	})

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.OnError(func(err error) {
		slog.Debug(LogMsgJobFailed, "error", err)
	})

	var session wallet.Session
	if cfg.ReadOnly() {
		slog.Warn(LogMsgReadOnly)
	} else {
		session = wallet.NewBridgeSession(cfg.WalletBridgeURL, cfg.Account)
	}

	farmSvc := farm.NewService(farm.Settings{
		FarmContract:    cfg.FarmContract,
		TokenContract:   cfg.TokenContract,
		NFTContract:     cfg.NFTContract,
		TokenSymbol:     cfg.TokenSymbol,
		TokenPrecision:  cfg.TokenPrecision,
		WaterEnergyCost: int64(cfg.WaterEnergyCost),
		Refresh: refresh.Options{
			Tries: cfg.RefreshTries,
			Delay: cfg.RefreshDelay,
		},
	}, session, clock, idx, gate.New(), store, bus, pool)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RateLimit:      cfg.HTTPRateLimit,
		Burst:          cfg.HTTPBurst,
	}, server.Deps{
		Farm:           farmSvc,
		Clock:          clock,
		Journal:        store,
		Hub:            hub,
		TokenSymbol:    cfg.TokenSymbol,
		TokenPrecision: cfg.TokenPrecision,
	})

	return &App{
		Config:  cfg,
		Bus:     bus,
		Clock:   clock,
		Indexer: idx,
		Journal: store,
		Pool:    pool,
		Hub:     hub,
		Farm:    farmSvc,
		Server:  srv,
	}, nil
}

// Start launches the background components. The HTTP server is started
// separately so the caller owns its error.
func (a *App) Start(ctx context.Context) {
	a.Pool.Start()
	a.Hub.Start()
	a.Clock.Start(ctx)
}

// ShutdownComponents returns the components in shutdown order
func (a *App) ShutdownComponents() ShutdownComponents {
	return ShutdownComponents{
		Server:  a.Server,
		Farm:    a.Farm,
		Clock:   a.Clock,
		Pool:    a.Pool,
		Hub:     a.Hub,
		Journal: a.Journal,
	}
}
