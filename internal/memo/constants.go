package memo

// Delimiter separates memo fields on the wire
const Delimiter = ":"

// MaxPrecision is the largest decimal precision a ledger symbol may carry
const MaxPrecision = 18

// MaxSymbolLength is the longest token symbol accepted
const MaxSymbolLength = 7

// Vote choices
const (
	VoteYes = "yes"
	VoteNo  = "no"
)

// Error message formats
const (
	ErrFmtMalformedDecimal = "%q is not a non-negative decimal"
	ErrFmtZeroAmount       = "%q is zero at precision %d"
	ErrFmtPrecisionRange   = "precision %d out of range [0, %d]"
	ErrFmtInvalidSymbol    = "invalid symbol %q"
	ErrFmtInvalidField     = "field %s: invalid value %q"
	ErrFmtUnknownVerb      = "unknown memo verb %q"
)
