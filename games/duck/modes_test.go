package duck

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogShape(t *testing.T) {
	all := Modes()
	require.Len(t, all, 3)

	for _, m := range all {
		require.Len(t, m.Multipliers, m.Lanes, "%s multiplier count", m.Name)
		prev := int64(100)
		for _, mult := range m.Multipliers {
			require.Greater(t, mult, int64(100), "%s pays under x1.00", m.Name)
			require.GreaterOrEqual(t, mult, prev, "%s multipliers not ascending", m.Name)
			prev = mult
		}
	}
}

func TestCatalogLaneCounts(t *testing.T) {
	for _, tt := range []struct {
		name  string
		lanes int
		final int64
	}{
		{"Easy", 7, 240},
		{"Medium", 5, 240},
		{"Hard", 3, 300},
	} {
		m, err := ModeByName(tt.name)
		require.NoError(t, err)
		require.Equal(t, tt.lanes, m.Lanes)
		require.Equal(t, tt.final, m.FinalMultiplier())
	}
}

func TestModeByNameCaseInsensitive(t *testing.T) {
	for _, name := range []string{"easy", "EASY", "Easy", "eAsY"} {
		m, err := ModeByName(name)
		require.NoError(t, err)
		require.Equal(t, "Easy", m.Name)
	}

	_, err := ModeByName("nightmare")
	require.ErrorIs(t, err, ErrUnknownMode)
}
