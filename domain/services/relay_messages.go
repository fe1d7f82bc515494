package services

import (
	"sincroni/domain/entities"
	"sincroni/domain/interfaces"
)

// DefaultEmbedColor is the relay embed color used when a guild has no override
const DefaultEmbedColor = 0xEB6D15

// DefaultGuildIconURL is shown for guilds without an icon
const DefaultGuildIconURL = "https://i.imgur.com/3ZUrjUP.png"

// relayCopy is the sanitized, destination-independent content of one relay
type relayCopy struct {
	content    string
	authorName string
	guildName  string
	avatarURL  string
	guildIcon  string
	msg        *entities.InboundMessage
}

func newRelayCopy(s interfaces.ContentSanitizer, msg *entities.InboundMessage, defaultIcon string) *relayCopy {
	icon := msg.GuildIconURL
	if icon == "" {
		icon = defaultIcon
	}
	return &relayCopy{
		content:    s.Sanitize(msg.Content),
		authorName: s.Sanitize(msg.AuthorName),
		guildName:  s.Sanitize(msg.GuildName),
		avatarURL:  msg.AuthorAvatarURL,
		guildIcon:  icon,
		msg:        msg,
	}
}

// directPost builds the copy posted straight into a channel. The author is
// shown in the embed header.
func (c *relayCopy) directPost(color int) *entities.OutboundMessage {
	return &entities.OutboundMessage{
		Embed: entities.Embed{
			Description:   c.content,
			Color:         color,
			AuthorName:    c.authorName,
			AuthorIconURL: c.avatarURL,
			FooterText:    c.guildName,
			ThumbnailURL:  c.guildIcon,
			Timestamp:     c.msg.CreatedAt,
		},
	}
}

// webhookPost builds the copy sent through a webhook. The author becomes the
// webhook's display identity and the guild moves to the footer.
func (c *relayCopy) webhookPost(color int) *entities.OutboundMessage {
	return &entities.OutboundMessage{
		Username:  c.authorName,
		AvatarURL: c.avatarURL,
		Embed: entities.Embed{
			Description:   c.content,
			Color:         color,
			FooterText:    c.guildName,
			FooterIconURL: c.guildIcon,
			ThumbnailURL:  c.guildIcon,
			Timestamp:     c.msg.CreatedAt,
		},
	}
}
