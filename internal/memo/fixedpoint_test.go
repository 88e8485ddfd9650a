package memo

import (
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/farmclock/internal/domain"
)

func TestToFixedPointString(t *testing.T) {
	tests := []struct {
		name      string
		decimal   string
		precision int
		want      string
	}{
		{"integer", "10000", 3, "10000000"},
		{"fraction padded", "0.4", 6, "400000"},
		{"rounds half up", "1.23456", 3, "1235"},
		{"rounds down", "1.23449", 3, "1234"},
		{"exact half", "0.0005", 3, "1"},
		{"carry through nines", "9.9995", 3, "10000"},
		{"precision zero rounds", "2.5", 0, "3"},
		{"leading zeros stripped", "000.0100", 4, "100"},
		{"trailing dot", "5.", 2, "500"},
		{"leading dot", ".5", 1, "5"},
		{"surrounding whitespace", "  1.5 ", 1, "15"},
		{"full-width digits", "１２．５", 1, "125"},
		{"large value", "123456789012345678901234567890.1", 4, "1234567890123456789012345678901000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToFixedPointString(tt.decimal, tt.precision)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToFixedPointString_Invalid(t *testing.T) {
	inputs := []string{"", " ", ".", "-1", "+1", "1e5", "1.2.3", "abc", "1,000", "0x10", "١٢"}

	for _, in := range inputs {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			_, err := ToFixedPointString(in, 4)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidAmount)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestToFixedPointString_ZeroRejected(t *testing.T) {
	for p := 0; p <= MaxPrecision; p++ {
		_, err := ToFixedPointString("0", p)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "precision %d", p)
	}

	// Rounds to zero
	_, err := ToFixedPointString("0.0004", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = ToFixedPointString("0.4", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestToFixedPointString_PrecisionRange(t *testing.T) {
	_, err := ToFixedPointString("1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ToFixedPointString("1", MaxPrecision+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFromFixedPoint(t *testing.T) {
	tests := []struct {
		raw       string
		precision int
		want      string
	}{
		{"1235", 3, "1.235"},
		{"5", 3, "0.005"},
		{"400000", 6, "0.400000"},
		{"10000000", 3, "10000.000"},
		{"42", 0, "42"},
		{"0042", 1, "4.2"},
	}

	for _, tt := range tests {
		got, err := FromFixedPoint(tt.raw, tt.precision)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := FromFixedPoint("12a", 2)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

// Reinserting the decimal point must land within one unit in the last place of
// the input, and never more than half a unit away (round half up).
func TestToFixedPointString_RoundTripProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		decimal := randomDecimal(rng)
		precision := rng.Intn(9)

		raw, err := ToFixedPointString(decimal, precision)
		if err != nil {
			// Only zero results may fail for well-formed input
			require.ErrorIs(t, err, domain.ErrInvalidAmount)
			assertRoundsToZero(t, decimal, precision)
			continue
		}

		back, err := FromFixedPoint(raw, precision)
		require.NoError(t, err)

		in := ratOf(t, decimal)
		out, ok := new(big.Rat).SetString(back)
		require.True(t, ok, back)

		ulp := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision)), nil))
		half := new(big.Rat).Mul(ulp, big.NewRat(1, 2))

		diff := new(big.Rat).Sub(out, in)
		assert.True(t, diff.Cmp(half) <= 0, "%s@%d -> %s overshoots", decimal, precision, back)
		assert.True(t, diff.Cmp(new(big.Rat).Neg(half)) > 0, "%s@%d -> %s undershoots", decimal, precision, back)
		assert.True(t, new(big.Rat).Abs(diff).Cmp(ulp) < 0)
	}
}

func randomDecimal(rng *rand.Rand) string {
	var b strings.Builder
	for i, n := 0, rng.Intn(8); i < n; i++ {
		b.WriteByte(byte('0' + rng.Intn(10)))
	}
	if rng.Intn(4) > 0 {
		b.WriteByte('.')
		for i, n := 0, rng.Intn(12); i < n; i++ {
			b.WriteByte(byte('0' + rng.Intn(10)))
		}
	}
	s := b.String()
	if s == "" || s == "." {
		return "1"
	}
	return s
}

func assertRoundsToZero(t *testing.T, decimal string, precision int) {
	t.Helper()
	in := ratOf(t, decimal)
	half := new(big.Rat).SetFrac(big.NewInt(5), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision+1)), nil))
	assert.True(t, in.Cmp(half) < 0, "%s@%d should not round to zero", decimal, precision)
}

func ratOf(t *testing.T, decimal string) *big.Rat {
	t.Helper()
	if strings.HasPrefix(decimal, ".") {
		decimal = "0" + decimal
	}
	decimal = strings.TrimSuffix(decimal, ".")
	r, ok := new(big.Rat).SetString(decimal)
	require.True(t, ok, decimal)
	return r
}
