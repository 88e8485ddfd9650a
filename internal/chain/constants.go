package chain

import "time"

// Endpoints
const (
	PathGetInfo = "/v1/chain/get_info"
)

// Client defaults
const (
	DefaultTimeout   = 5 * time.Second
	DefaultRateLimit = 5 // requests per second
	ZoneSuffix       = "Z"
)

// Error messages
const (
	ErrMsgRPCStatus      = "chain rpc returned status %d"
	ErrMsgDecodeResponse = "failed to decode chain rpc response"
	ErrMsgEmptyHeadTime  = "chain rpc returned empty head_block_time"
	ErrMsgParseTime      = "cannot parse chain time %q"
)

// Log messages
const (
	LogMsgHeadBlockTime = "Fetched chain head block time"
)
