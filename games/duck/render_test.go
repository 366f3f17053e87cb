package duck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmojiBoardStartPosition(t *testing.T) {
	out := EmojiBoard{}.RenderBoard(-1, HazardHidden, 3)
	require.True(t, strings.HasPrefix(out, "🦆"), "duck must start on the grass")
	require.True(t, strings.HasSuffix(out, "🏁"))
	require.NotContains(t, out, "🚗")
	require.NotContains(t, out, "💥")
}

func TestEmojiBoardDuckOnLane(t *testing.T) {
	out := EmojiBoard{}.RenderBoard(1, HazardHidden, 3)
	require.Equal(t, 1, strings.Count(out, "🦆"))
	require.True(t, strings.HasPrefix(out, "🌱"))
	require.NotContains(t, out, "🚗")
}

func TestEmojiBoardCrashFrame(t *testing.T) {
	out := EmojiBoard{}.RenderBoard(2, 2, 5)
	require.Contains(t, out, "💥")
	require.NotContains(t, out, "🚗", "the hazard and the duck share a cell on a crash")
}

func TestEmojiBoardRevealedHazardElsewhere(t *testing.T) {
	// A revealed hazard on a different lane draws as a car.
	out := EmojiBoard{}.RenderBoard(0, 2, 5)
	require.Contains(t, out, "🚗")
	require.Contains(t, out, "🦆")
}

func TestEmojiBoardFinishFrame(t *testing.T) {
	out := EmojiBoard{}.RenderBoard(3, HazardHidden, 3)
	require.True(t, strings.HasSuffix(out, "🦆"), "finished duck stands past the last lane")
	require.NotContains(t, out, "🏁")
}

func TestEmojiBoardNeverLeaksHiddenHazard(t *testing.T) {
	for pos := -1; pos < 7; pos++ {
		out := EmojiBoard{}.RenderBoard(pos, HazardHidden, 7)
		require.NotContains(t, out, "🚗", "position %d", pos)
		require.NotContains(t, out, "💥", "position %d", pos)
	}
}
