package wallet

import "time"

// Bridge endpoints
const (
	PathTransact = "/v1/transact"
)

// Contract action names
const (
	ActionNameTransfer = "transfer"
	ActionNameWater    = "water"
	ActionNameHarvest  = "harvest"
	ActionNameUnstake  = "unstake"

	PermissionActive = "active"
)

// DefaultTimeout bounds a bridge call. Signing waits for a human, so it is long.
const DefaultTimeout = 2 * time.Minute

// Phrases wallets use when the user dismisses the signing prompt. Matched
// case-insensitively as substrings.
var cancelPhrases = []string{
	"user canceled",
	"user cancelled",
	"user rejected",
	"user denied",
	"user declined",
	"request rejected",
	"window closed",
}

// assertionPrefix precedes the contract's own message in chain error details
const assertionPrefix = "assertion failure with message: "

// Error messages
const (
	ErrMsgBridgeStatus = "wallet bridge returned status %d"
)

// Log messages
const (
	LogMsgTransactSubmitted = "Submitting transaction to wallet"
	LogMsgTransactDone      = "Wallet transaction broadcast"
)
