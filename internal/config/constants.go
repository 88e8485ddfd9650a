package config

import "time"

// Defaults
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultEnvironment       = "dev"
	DefaultChainRPCURL       = "http://localhost:8888"
	DefaultIndexerURL        = "http://localhost:3000"
	DefaultWalletBridgeURL   = "http://localhost:7777"
	DefaultFarmContract      = "farmclockapp"
	DefaultTokenContract     = "farmclocktkn"
	DefaultNFTContract       = "atomicassets"
	DefaultClockPollInterval = 10 * time.Second
	DefaultClockTickInterval = time.Second
	DefaultRefreshTries      = 3
	DefaultRefreshDelay      = 2 * time.Second
	DefaultIndexerCacheTTL   = 5 * time.Second
	DefaultIndexerCacheSize  = 256
	DefaultRPCRateLimit      = 5.0
	DefaultJournalDSN        = "farmclock.db"
	DefaultWorkerCount       = 2
	DefaultWorkerQueueSize   = 64
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultHTTPRateLimit     = 20.0
	DefaultHTTPBurst         = 40
)

// Environment variable names
const (
	EnvPort              = "PORT"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
	EnvEnvironment       = "ENVIRONMENT"
	EnvVersion           = "VERSION"
	EnvChainRPCURL       = "CHAIN_RPC_URL"
	EnvIndexerURL        = "INDEXER_URL"
	EnvWalletBridgeURL   = "WALLET_BRIDGE_URL"
	EnvAccount           = "ACCOUNT"
	EnvFarmContract      = "FARM_CONTRACT"
	EnvTokenContract     = "TOKEN_CONTRACT"
	EnvNFTContract       = "NFT_CONTRACT"
	EnvTokenSymbol       = "TOKEN_SYMBOL"
	EnvTokenPrecision    = "TOKEN_PRECISION"
	EnvWaterEnergyCost   = "WATER_ENERGY_COST"
	EnvClockPollInterval = "CLOCK_POLL_INTERVAL"
	EnvClockTickInterval = "CLOCK_TICK_INTERVAL"
	EnvRefreshTries      = "REFRESH_TRIES"
	EnvRefreshDelay      = "REFRESH_DELAY"
	EnvIndexerCacheTTL   = "INDEXER_CACHE_TTL"
	EnvIndexerCacheSize  = "INDEXER_CACHE_SIZE"
	EnvRPCRateLimit      = "RPC_RATE_LIMIT"
	EnvJournalDSN        = "JOURNAL_DSN"
	EnvWorkerCount       = "WORKER_COUNT"
	EnvWorkerQueueSize   = "WORKER_QUEUE_SIZE"
	EnvShutdownTimeout   = "SHUTDOWN_TIMEOUT"
	EnvAPIKey            = "API_KEY"
	EnvTrustedProxies    = "TRUSTED_PROXIES"
	EnvHTTPRateLimit     = "HTTP_RATE_LIMIT"
	EnvHTTPBurst         = "HTTP_BURST"
)
