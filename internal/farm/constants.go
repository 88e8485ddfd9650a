package farm

// Error messages
const (
	ErrMsgReadOnly        = "no wallet account configured"
	ErrMsgMissingPlot     = "plot_id is required"
	ErrMsgMissingSlot     = "slot must be >= 0"
	ErrMsgMissingFarm     = "farm_id is required"
	ErrMsgMissingAssets   = "asset_ids are required"
	ErrMsgMissingAmount   = "amount is required"
	ErrMsgMissingProposal = "proposal is required"
	ErrMsgMissingVote     = "proposal_id is required"
	ErrMsgNoSeedAsset     = "inventory lists no seed asset"
	ErrMsgClockUnsynced   = "chain time not known yet"
)

// Log messages
const (
	LogMsgActionRejected    = "Action rejected locally"
	LogMsgActionBusy        = "Action already pending"
	LogMsgActionSubmitting  = "Submitting action"
	LogMsgActionResolved    = "Action resolved"
	LogMsgJournalFailed     = "Failed to write journal"
	LogMsgPublishFailed     = "Failed to publish event"
	LogMsgRefreshQueueFull  = "Refresh queue full, skipping refresh"
	LogMsgRefreshDone       = "Post-action refresh finished"
	LogMsgShutdownRefreshes = "Cancelling refreshes"
)
