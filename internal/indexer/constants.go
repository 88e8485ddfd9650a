package indexer

import (
	"time"

	"github.com/osse101/farmclock/internal/validation"
)

// Endpoints
const (
	PathFarms         = "/farms"
	PathFarmPlotsFmt  = "/farms/%s/plots"
	PathInventoryFmt  = "/inventory/%s"
	QueryParamOwner   = "owner"
	EndpointFarms     = validation.SchemaFarms
	EndpointPlots     = validation.SchemaPlots
	EndpointInventory = validation.SchemaInventory
)

// Client defaults
const (
	DefaultTimeout   = 10 * time.Second
	DefaultCacheSize = 256
	DefaultCacheTTL  = 5 * time.Second
	DefaultRateLimit = 10 // requests per second
	MaxResponseBytes = 8 << 20
)

// CacheSchemaVersion is bumped when cached snapshot shapes change so old
// entries are discarded instead of misread
const CacheSchemaVersion = "1.0"

// Cache key prefixes
const (
	cacheKeyFarms     = "farms:"
	cacheKeyPlots     = "plots:"
	cacheKeyInventory = "inventory:"
)

// Error messages
const (
	ErrMsgIndexerStatus  = "indexer returned status %d for %s"
	ErrMsgDecodeResponse = "failed to decode indexer response"
	ErrMsgBadLastAction  = "slot %d of plot %s has unparseable last_action"
)

// Log messages
const (
	LogMsgCacheHit        = "Indexer cache hit"
	LogMsgFetched         = "Fetched indexer snapshot"
	LogMsgCacheInvalidate = "Invalidated indexer cache"
)
