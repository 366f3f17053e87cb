package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// CreateActionRow creates an action row with buttons.
func CreateActionRow(buttons ...discordgo.MessageComponent) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: buttons}
}

// CreateButton creates a button component.
func CreateButton(customID, label string, style discordgo.ButtonStyle, disabled bool) discordgo.MessageComponent {
	return discordgo.Button{
		CustomID: customID,
		Label:    label,
		Style:    style,
		Disabled: disabled,
	}
}

// DisableAllComponents returns a copy of the rows with every button disabled,
// used to freeze a finished game message.
func DisableAllComponents(rows []discordgo.MessageComponent) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		ar, ok := row.(discordgo.ActionsRow)
		if !ok {
			out = append(out, row)
			continue
		}
		btns := make([]discordgo.MessageComponent, 0, len(ar.Components))
		for _, c := range ar.Components {
			if b, ok := c.(discordgo.Button); ok {
				b.Disabled = true
				btns = append(btns, b)
			} else {
				btns = append(btns, c)
			}
		}
		out = append(out, discordgo.ActionsRow{Components: btns})
	}
	return out
}

// interactionResponseData assembles the payload every outbound embed goes
// through, trimmed by OptimizeEmbedPayload on the way out.
func interactionResponseData(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, ephemeral bool) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{OptimizeEmbedPayload(embed)},
		Components: components,
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}

// SendInteractionResponse sends an initial interaction response.
func SendInteractionResponse(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, ephemeral bool) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: interactionResponseData(embed, components, ephemeral),
	})
}

// DeferInteractionResponse defers an interaction response.
func DeferInteractionResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// EditOriginalInteraction edits the original interaction response.
func EditOriginalInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	edit := &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{OptimizeEmbedPayload(embed)},
		Components: &components,
	}
	_, err := s.InteractionResponseEdit(i.Interaction, edit)
	return err
}

// EditOriginalInteractionWithRetry retries transient Discord API failures
// with a short backoff. Errors that cannot succeed on retry break out early.
func EditOriginalInteractionWithRetry(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, maxRetries int) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(50*attempt*attempt) * time.Millisecond)
		}
		lastErr = EditOriginalInteraction(s, i, embed, components)
		if lastErr == nil {
			return nil
		}
		if isNonRetryableError(lastErr) {
			break
		}
	}
	return lastErr
}

// UpdateComponentInteraction answers a button press by rewriting the message
// it lives on.
func UpdateComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: interactionResponseData(embed, components, false),
	})
}

// AcknowledgeComponentInteraction acknowledges a button press without
// changing the message.
func AcknowledgeComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// TryEphemeralFollowup sends a small ephemeral notice; errors are the
// caller's to ignore.
func TryEphemeralFollowup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	params := &discordgo.WebhookParams{Content: content, Flags: discordgo.MessageFlagsEphemeral}
	_, err := s.FollowupMessageCreate(i.Interaction, true, params)
	return err
}

// isNonRetryableError checks if a Discord API error should not be retried.
func isNonRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Unknown Webhook") ||
		strings.Contains(msg, "\"code\": 10015") ||
		strings.Contains(msg, "Unknown interaction") ||
		strings.Contains(msg, "400")
}

// ParseUserID converts a Discord user ID string to int64.
func ParseUserID(id string) (int64, error) { return strconv.ParseInt(id, 10, 64) }

// MemberIsAdmin reports whether the interaction member carries the admin
// role. Role names resolve through the session state cache.
func MemberIsAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	for _, roleID := range i.Member.Roles {
		role, err := s.State.Role(i.GuildID, roleID)
		if err != nil {
			continue
		}
		if strings.EqualFold(role.Name, AdminRoleName) {
			return true
		}
	}
	return false
}

// OptimizeEmbedPayload trims whitespace and drops empty fields before an
// embed goes over the wire.
func OptimizeEmbedPayload(embed *discordgo.MessageEmbed) *discordgo.MessageEmbed {
	if embed == nil {
		return embed
	}

	optimized := &discordgo.MessageEmbed{
		Title:       strings.TrimSpace(embed.Title),
		Description: strings.TrimSpace(embed.Description),
		Color:       embed.Color,
		Timestamp:   embed.Timestamp,
	}

	if embed.Footer != nil && strings.TrimSpace(embed.Footer.Text) != "" {
		optimized.Footer = &discordgo.MessageEmbedFooter{
			Text:    strings.TrimSpace(embed.Footer.Text),
			IconURL: embed.Footer.IconURL,
		}
	}
	if embed.Thumbnail != nil && embed.Thumbnail.URL != "" {
		optimized.Thumbnail = embed.Thumbnail
	}

	for _, field := range embed.Fields {
		if field != nil && strings.TrimSpace(field.Name) != "" && strings.TrimSpace(field.Value) != "" {
			optimized.Fields = append(optimized.Fields, &discordgo.MessageEmbedField{
				Name:   strings.TrimSpace(field.Name),
				Value:  strings.TrimSpace(field.Value),
				Inline: field.Inline,
			})
		}
	}
	return optimized
}
