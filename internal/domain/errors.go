package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Input errors
	ErrMsgInvalidInput       = "invalid input"
	ErrMsgInvalidAmount      = "invalid amount"
	ErrMsgInsufficientEnergy = "insufficient energy"
	ErrMsgMemoArity          = "memo arity mismatch"

	// State errors
	ErrMsgIllegalTransition = "illegal state transition"
	ErrMsgOnCooldown        = "action on cooldown"
	ErrMsgSeedUnavailable   = "no seed available"
	ErrMsgActiveCrop        = "plot has an active crop"
	ErrMsgActionPending     = "action already pending"

	// Lookup errors
	ErrMsgFarmNotFound = "farm not found"
	ErrMsgPlotNotFound = "plot not found"
	ErrMsgSlotNotFound = "slot not found"

	// Wallet / ledger errors
	ErrMsgUserCancelled     = "cancelled by user"
	ErrMsgContractAssertion = "contract assertion failed"

	// Network errors
	ErrMsgNetworkOrIndexerLag = "network or indexer unavailable"
)

// Common domain errors.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// InvalidInput class: malformed or out-of-range user input, caught before any network call
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// IllegalStateTransition class: the slot state forbids the action
	ErrIllegalTransition = errors.New(ErrMsgIllegalTransition)

	// UserCancelled: the wallet prompt was dismissed
	ErrUserCancelled = errors.New(ErrMsgUserCancelled)

	// ContractAssertionFailure: the ledger rejected the transaction
	ErrContractAssertion = errors.New(ErrMsgContractAssertion)

	// NetworkOrIndexerLag: transient fetch failure or stale read
	ErrNetworkOrIndexerLag = errors.New(ErrMsgNetworkOrIndexerLag)

	// ErrActionPending is returned when the same action key is already in flight
	ErrActionPending = errors.New(ErrMsgActionPending)

	ErrFarmNotFound = errors.New(ErrMsgFarmNotFound)
	ErrPlotNotFound = errors.New(ErrMsgPlotNotFound)
	ErrSlotNotFound = errors.New(ErrMsgSlotNotFound)
)

// Refinements that keep their class reachable through errors.Is
var (
	ErrInvalidAmount      = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgInvalidAmount)
	ErrInsufficientEnergy = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgInsufficientEnergy)
	ErrMemoArity          = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgMemoArity)

	ErrOnCooldown      = fmt.Errorf("%w: %s", ErrIllegalTransition, ErrMsgOnCooldown)
	ErrSeedUnavailable = fmt.Errorf("%w: %s", ErrIllegalTransition, ErrMsgSeedUnavailable)
	ErrActiveCrop      = fmt.Errorf("%w: %s", ErrIllegalTransition, ErrMsgActiveCrop)
)

// ContractAssertionError carries the human-readable message the contract asserted with
type ContractAssertionError struct {
	Message string
	Code    int
}

func (e *ContractAssertionError) Error() string {
	return ErrMsgContractAssertion + ": " + e.Message
}

// Is allows errors.Is(err, ErrContractAssertion) to match
func (e *ContractAssertionError) Is(target error) bool {
	return target == ErrContractAssertion
}

// IsLocalRejection reports whether err was raised by local validation, before
// anything was sent to the network or wallet
func IsLocalRejection(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrIllegalTransition)
}
