package utils

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// CreateBrandedEmbed creates a basic embed with bot branding.
func CreateBrandedEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Duck Game",
		},
	}
}

// ErrorEmbed wraps a rejection message in the standard error styling.
func ErrorEmbed(message string) *discordgo.MessageEmbed {
	return CreateBrandedEmbed("Error", message, ColorLoss)
}

// InsufficientFundsEmbed reports a failed stake or transfer with both sides
// of the shortfall.
func InsufficientFundsEmbed(required, available int64) *discordgo.MessageEmbed {
	return CreateBrandedEmbed(
		"Not Enough Funds",
		fmt.Sprintf("You don't have enough for that.\n**Your wallet:** %s\n**Required:** %s",
			FormatMoney(available), FormatMoney(required)),
		ColorLoss,
	)
}

// CooldownEmbed reports the remaining wait on a rate-limited command.
func CooldownEmbed(action string, remaining time.Duration) *discordgo.MessageEmbed {
	mins := int(remaining.Minutes())
	secs := int(remaining.Seconds()) % 60
	return CreateBrandedEmbed(
		"Slow Down",
		fmt.Sprintf("You need to wait %dm %ds before using %s again.", mins, secs, action),
		ColorWarn,
	)
}

// BalanceEmbed shows a player's compartments and record.
func BalanceEmbed(username string, rec Record) *discordgo.MessageEmbed {
	embed := CreateBrandedEmbed(fmt.Sprintf("%s's Balance", username), "", BotColor)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Wallet", Value: FormatMoney(rec.Wallet), Inline: true},
		{Name: "Bank", Value: FormatMoney(rec.Bank), Inline: true},
		{Name: "Record", Value: fmt.Sprintf("%dW / %dL", rec.Wins, rec.Losses), Inline: true},
	}
	return embed
}

// DeltaLine renders a wallet movement as a colored delta suffix.
func DeltaLine(after, before int64) string {
	delta := after - before
	if delta >= 0 {
		return fmt.Sprintf("🟢 (+%s)", FormatMoney(delta))
	}
	return fmt.Sprintf("🔴 (-%s)", FormatMoney(-delta))
}
