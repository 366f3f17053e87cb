package duck

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func embedField(t *testing.T, embed *discordgo.MessageEmbed, name string) string {
	t.Helper()
	for _, f := range embed.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("embed has no %q field", name)
	return ""
}

func TestFinalEmbedShowsNetDelta(t *testing.T) {
	win := &StepResult{
		Status:     StatusCashedOut,
		Stake:      10_000,
		Multiplier: 135,
		Payout:     13_500,
		HazardLane: HazardHidden,
		LaneCount:  7,
		Position:   2,
	}
	embed := finalEmbed("player", win)
	require.Equal(t, "🟢 (+$35.00)", embedField(t, embed, "Net"))
	require.Equal(t, "$135.00", embedField(t, embed, "Payout"))

	loss := &StepResult{
		Status:     StatusCrashed,
		Stake:      5_000,
		Multiplier: 150,
		Payout:     0,
		HazardLane: 0,
		LaneCount:  3,
		Position:   0,
	}
	embed = finalEmbed("player", loss)
	require.Equal(t, "🔴 (-$50.00)", embedField(t, embed, "Net"))
}

func TestGameFieldsAlwaysShowBet(t *testing.T) {
	res := &StepResult{Stake: 2_500, Multiplier: 120, Winnings: 3_000, HazardLane: HazardHidden}
	require.Equal(t, "$25.00", embedField(t, &discordgo.MessageEmbed{Fields: gameFields(res)}, "Bet"))
}

// Every mode button must route back to a real catalog entry, otherwise the
// press would be answered with an error the player cannot act on.
func TestModeButtonsRoundTrip(t *testing.T) {
	rows := modeComponents(42)
	require.Len(t, rows, 1)
	row, ok := rows[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, len(Modes()))

	for _, c := range row.Components {
		btn, ok := c.(discordgo.Button)
		require.True(t, ok)

		parts := strings.Split(btn.CustomID, "_")
		require.Len(t, parts, 4)
		require.Equal(t, "duck", parts[0])
		require.Equal(t, "mode", parts[1])
		require.Equal(t, "42", parts[3])

		m, err := ModeByName(parts[2])
		require.NoError(t, err)
		require.Equal(t, btn.Label, m.Name)
	}
}
