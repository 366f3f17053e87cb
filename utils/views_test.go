package utils

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestDisableAllComponents(t *testing.T) {
	rows := []discordgo.MessageComponent{
		CreateActionRow(
			CreateButton("a", "A", discordgo.PrimaryButton, false),
			CreateButton("b", "B", discordgo.DangerButton, false),
		),
	}

	disabled := DisableAllComponents(rows)
	ar, ok := disabled[0].(discordgo.ActionsRow)
	require.True(t, ok)
	for _, c := range ar.Components {
		btn, ok := c.(discordgo.Button)
		require.True(t, ok)
		require.True(t, btn.Disabled)
	}

	// The input rows are untouched.
	orig := rows[0].(discordgo.ActionsRow)
	require.False(t, orig.Components[0].(discordgo.Button).Disabled)
}

func TestIsNonRetryableError(t *testing.T) {
	require.False(t, isNonRetryableError(nil))
	require.False(t, isNonRetryableError(errors.New("connection reset by peer")))
	require.True(t, isNonRetryableError(errors.New("HTTP 404 Not Found, Unknown Webhook")))
	require.True(t, isNonRetryableError(errors.New(`{"code": 10015}`)))
	require.True(t, isNonRetryableError(errors.New("Unknown interaction")))
	require.True(t, isNonRetryableError(errors.New("HTTP 400 Bad Request")))
}

func TestOptimizeEmbedPayload(t *testing.T) {
	embed := &discordgo.MessageEmbed{
		Title:       "  Duck Game  ",
		Description: " board ",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wallet", Value: " $1.00 "},
			{Name: "  ", Value: "dropped"},
			{Name: "dropped", Value: ""},
			nil,
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "  "},
	}

	out := OptimizeEmbedPayload(embed)
	require.Equal(t, "Duck Game", out.Title)
	require.Equal(t, "board", out.Description)
	require.Len(t, out.Fields, 1)
	require.Equal(t, "$1.00", out.Fields[0].Value)
	require.Nil(t, out.Footer)

	require.Nil(t, OptimizeEmbedPayload(nil))
}

func TestInteractionResponseDataOptimizesEmbed(t *testing.T) {
	embed := &discordgo.MessageEmbed{
		Title: "  Duck Game  ",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wallet", Value: "$1.00"},
			{Name: "", Value: "dropped"},
		},
	}

	data := interactionResponseData(embed, nil, true)
	require.Equal(t, discordgo.MessageFlagsEphemeral, data.Flags)
	require.Len(t, data.Embeds, 1)
	require.Equal(t, "Duck Game", data.Embeds[0].Title)
	require.Len(t, data.Embeds[0].Fields, 1)

	data = interactionResponseData(embed, nil, false)
	require.Zero(t, data.Flags)
}

func TestDeltaLine(t *testing.T) {
	require.Equal(t, "🟢 (+$1.00)", DeltaLine(200, 100))
	require.Equal(t, "🔴 (-$1.00)", DeltaLine(100, 200))
	require.Equal(t, "🟢 (+$0.00)", DeltaLine(100, 100))
}
