package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	available := int64(100_000) // $1,000.00

	tests := []struct {
		name string
		spec string
		want int64
	}{
		{"plain dollars", "250", 25_000},
		{"with cents", "250.50", 25_050},
		{"dollar sign", "$99", 9_900},
		{"comma separators", "1,000", 100_000},
		{"all", "all", 100_000},
		{"all shorthand", "a", 100_000},
		{"half", "half", 50_000},
		{"half shorthand", "h", 50_000},
		{"percent", "25%", 25_000},
		{"full percent", "100%", 100_000},
		{"k suffix", "10k", 1_000_000},
		{"decimal k suffix", "2.5k", 250_000},
		{"m suffix", "1m", 100_000_000},
		{"case insensitive", "ALL", 100_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.spec, available)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, spec := range []string{"", "abc", "-5", "0", "0.00", "101%", "-10%", "1.234", "k", "."} {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseAmount(spec, 100_000)
			require.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestParseAmountEmptyBalance(t *testing.T) {
	// "all" of nothing is not a valid bet.
	_, err := ParseAmount("all", 0)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("half", 1)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormatMoney(t *testing.T) {
	require.Equal(t, "$0.00", FormatMoney(0))
	require.Equal(t, "$0.05", FormatMoney(5))
	require.Equal(t, "$1,234.56", FormatMoney(123_456))
	require.Equal(t, "$1,000,000.00", FormatMoney(100_000_000))
	require.Equal(t, "-$0.50", FormatMoney(-50))
}

func TestFormatMultiplier(t *testing.T) {
	require.Equal(t, "x1.00", FormatMultiplier(100))
	require.Equal(t, "x1.35", FormatMultiplier(135))
	require.Equal(t, "x3.00", FormatMultiplier(300))
}

func TestApplyMultiplier(t *testing.T) {
	require.Equal(t, int64(13_500), ApplyMultiplier(10_000, 135))
	require.Equal(t, int64(24_000), ApplyMultiplier(10_000, 240))
	require.Equal(t, int64(0), ApplyMultiplier(0, 240))

	// Half-up rounding on the discarded fraction.
	require.Equal(t, int64(51), ApplyMultiplier(50, 101))  // 50.5 -> 51
	require.Equal(t, int64(366), ApplyMultiplier(333, 110)) // 366.3 -> 366
	require.Equal(t, int64(2), ApplyMultiplier(1, 150))     // 1.5 -> 2
}
