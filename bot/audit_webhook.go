package bot

import (
	"context"
	"fmt"

	"sincroni/bot/common"
	"sincroni/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// DefaultBlockedAvatarURL is the avatar shown on moderation copies of blocked messages
const DefaultBlockedAvatarURL = "https://i.imgur.com/qyk9vQq.png"

// AuditWebhook implements interfaces.AuditSink by posting to the moderation webhook
type AuditWebhook struct {
	api              discordAPI
	hook             entities.WebhookHandle
	color            int
	blockedAvatarURL string
}

// NewAuditWebhook validates webhookURL and returns a sink posting to it
func NewAuditWebhook(api discordAPI, webhookURL string, color int, blockedAvatarURL string) (*AuditWebhook, error) {
	hook, err := entities.ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid moderation webhook: %w", err)
	}
	if blockedAvatarURL == "" {
		blockedAvatarURL = DefaultBlockedAvatarURL
	}
	return &AuditWebhook{
		api:              api,
		hook:             *hook,
		color:            color,
		blockedAvatarURL: blockedAvatarURL,
	}, nil
}

// SendAudit posts the unredacted copy with its identifying ids
func (a *AuditWebhook) SendAudit(ctx context.Context, record *entities.AuditRecord) error {
	params := &discordgo.WebhookParams{
		Username:        record.AuthorName,
		AvatarURL:       record.AuthorAvatarURL,
		Embeds:          []*discordgo.MessageEmbed{toMessageEmbed(a.auditEmbed(record))},
		AllowedMentions: common.NoMentions(),
	}
	if record.Blocked {
		params.Username = "Blacklisted: " + record.AuthorName
		params.AvatarURL = a.blockedAvatarURL
	}

	if _, err := a.api.WebhookExecute(a.hook.ID, a.hook.Token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to post audit copy of message %d: %w", record.MessageID, err)
	}
	return nil
}

func (a *AuditWebhook) auditEmbed(record *entities.AuditRecord) entities.Embed {
	return entities.Embed{
		Description:  record.Content,
		Color:        a.color,
		FooterText:   record.GuildName,
		ThumbnailURL: record.GuildIconURL,
		Timestamp:    record.CreatedAt,
		Fields: []entities.EmbedField{
			{Name: "Guild ID", Value: common.FormatSnowflake(record.GuildID)},
			{Name: "Channel ID", Value: common.FormatSnowflake(record.ChannelID)},
			{Name: "User ID", Value: common.FormatSnowflake(record.AuthorID)},
			{Name: "Message ID", Value: common.FormatSnowflake(record.MessageID)},
		},
	}
}
