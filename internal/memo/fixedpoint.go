package memo

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/osse101/farmclock/internal/domain"
)

// Normalize trims whitespace and folds full-width digits and separators to ASCII,
// so "１２．５" typed on a CJK keyboard is read as "12.5".
func Normalize(raw string) string {
	return strings.TrimSpace(width.Narrow.String(raw))
}

// ToFixedPointString converts a non-negative decimal string into the integer a
// contract expects at the given precision. Digits beyond precision are rounded
// half up. Only string and digit arithmetic is used.
//
//	ToFixedPointString("1.23456", 3) == "1235"
//	ToFixedPointString("0.4", 6)     == "400000"
//
// Malformed input and amounts that round to zero fail with domain.ErrInvalidAmount.
func ToFixedPointString(decimal string, precision int) (string, error) {
	if precision < 0 || precision > MaxPrecision {
		return "", fmt.Errorf("%w: "+ErrFmtPrecisionRange, domain.ErrInvalidInput, precision, MaxPrecision)
	}

	intPart, fracPart, err := splitDecimal(decimal)
	if err != nil {
		return "", err
	}

	roundUp := false
	if len(fracPart) > precision {
		roundUp = fracPart[precision] >= '5'
		fracPart = fracPart[:precision]
	} else {
		fracPart += strings.Repeat("0", precision-len(fracPart))
	}

	digits := trimLeadingZeros(intPart + fracPart)
	if roundUp {
		digits = incrementDigits(digits)
	}

	if digits == "0" {
		return "", fmt.Errorf("%w: "+ErrFmtZeroAmount, domain.ErrInvalidAmount, decimal, precision)
	}
	return digits, nil
}

// FromFixedPoint inserts the decimal point precision digits from the right.
// It is the display inverse of ToFixedPointString.
func FromFixedPoint(raw string, precision int) (string, error) {
	if precision < 0 || precision > MaxPrecision {
		return "", fmt.Errorf("%w: "+ErrFmtPrecisionRange, domain.ErrInvalidInput, precision, MaxPrecision)
	}
	if raw == "" || !allDigits(raw) {
		return "", fmt.Errorf("%w: "+ErrFmtMalformedDecimal, domain.ErrInvalidAmount, raw)
	}

	raw = trimLeadingZeros(raw)
	if precision == 0 {
		return raw, nil
	}
	if len(raw) <= precision {
		raw = strings.Repeat("0", precision-len(raw)+1) + raw
	}
	cut := len(raw) - precision
	return raw[:cut] + "." + raw[cut:], nil
}

// splitDecimal validates the input and returns its integer and fractional digits.
// "5.", ".5" and "05" are accepted; signs, exponents and separators are not.
func splitDecimal(raw string) (string, string, error) {
	s := Normalize(raw)
	malformed := fmt.Errorf("%w: "+ErrFmtMalformedDecimal, domain.ErrInvalidAmount, raw)

	if s == "" || strings.Count(s, ".") > 1 {
		return "", "", malformed
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return "", "", malformed
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return "", "", malformed
	}
	return intPart, fracPart, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func trimLeadingZeros(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}

// incrementDigits adds one to a non-negative decimal digit string
func incrementDigits(s string) string {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == '9' {
			b[i] = '0'
			continue
		}
		b[i]++
		return string(b)
	}
	return "1" + string(b)
}
