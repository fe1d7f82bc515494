package bot

import (
	"sincroni/bot/common"
	"sincroni/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// toInboundMessage reduces a gateway message to what the relay needs. guild
// may be nil when the guild is not cached yet.
func toInboundMessage(m *discordgo.Message, guild *discordgo.Guild) (*entities.InboundMessage, error) {
	msg := &entities.InboundMessage{
		Content:   m.ContentWithMentionsReplaced(),
		Kind:      toMessageKind(m.Type),
		CreatedAt: m.Timestamp,
	}

	var err error
	if msg.ID, err = common.ParseSnowflake(m.ID); err != nil {
		return nil, err
	}
	if msg.ChannelID, err = common.ParseSnowflake(m.ChannelID); err != nil {
		return nil, err
	}
	if m.GuildID != "" {
		if msg.GuildID, err = common.ParseSnowflake(m.GuildID); err != nil {
			return nil, err
		}
	}

	if m.Author != nil {
		if msg.AuthorID, err = common.ParseSnowflake(m.Author.ID); err != nil {
			return nil, err
		}
		msg.AuthorName = m.Author.String()
		msg.AuthorAvatarURL = m.Author.AvatarURL("")
		msg.AuthorIsBot = m.Author.Bot
	}

	if guild != nil {
		msg.GuildName = guild.Name
		msg.GuildIconURL = guild.IconURL("")
	}

	return msg, nil
}

func toMessageKind(t discordgo.MessageType) entities.MessageKind {
	switch t {
	case discordgo.MessageTypeDefault:
		return entities.MessageKindDefault
	case discordgo.MessageTypeReply:
		return entities.MessageKindReply
	default:
		return entities.MessageKindOther
	}
}
