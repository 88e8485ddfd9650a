package memo

import (
	"fmt"

	"github.com/osse101/farmclock/internal/domain"
)

// ToAssetString formats a user-entered amount as a ledger asset string,
// "<value with precision decimals> <SYMBOL>", e.g. "1.2350 FWG".
func ToAssetString(amount, symbol string, precision int) (string, error) {
	if !ValidSymbol(symbol) {
		return "", fmt.Errorf("%w: "+ErrFmtInvalidSymbol, domain.ErrInvalidInput, symbol)
	}

	raw, err := ToFixedPointString(amount, precision)
	if err != nil {
		return "", err
	}

	value, err := FromFixedPoint(raw, precision)
	if err != nil {
		return "", err
	}
	return value + " " + symbol, nil
}

// ValidSymbol reports whether s is 1-7 upper-case letters
func ValidSymbol(s string) bool {
	if len(s) == 0 || len(s) > MaxSymbolLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
