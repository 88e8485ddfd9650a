package domain

import "time"

// Growth defaults
const (
	// DefaultWaterEnergyCost is the energy a single watering consumes
	DefaultWaterEnergyCost = 0

	// MaxSlotsPerPlot bounds plot capacity reported by the indexer
	MaxSlotsPerPlot = 16
)

// Clock defaults
const (
	DefaultClockPollInterval = 10 * time.Second
	DefaultClockTickInterval = time.Second

	// StaleAfterFailures is the number of consecutive failed clock fetches after
	// which readings are reported as "last known"
	StaleAfterFailures = 2
)

// Refresh defaults
const (
	DefaultRefreshTries = 3
	DefaultRefreshDelay = 2 * time.Second
)

// Token defaults
const (
	DefaultTokenSymbol    = "FWG"
	DefaultTokenPrecision = 4
)

// Journal outcomes
const (
	OutcomeSubmitted = "submitted"
	OutcomeSucceeded = "succeeded"
	OutcomeCancelled = "cancelled"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)
