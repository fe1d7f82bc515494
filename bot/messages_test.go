package bot

import (
	"testing"
	"time"

	"sincroni/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInboundMessage(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	m := &discordgo.Message{
		ID:        "9001",
		ChannelID: "2001",
		GuildID:   "1001",
		Content:   "hi <@7002>",
		Timestamp: created,
		Type:      discordgo.MessageTypeReply,
		Author:    &discordgo.User{ID: "7001", Username: "alice", Discriminator: "0"},
		Mentions:  []*discordgo.User{{ID: "7002", Username: "bob", Discriminator: "0"}},
	}
	guild := &discordgo.Guild{ID: "1001", Name: "Guild A"}

	msg, err := toInboundMessage(m, guild)
	require.NoError(t, err)

	assert.Equal(t, int64(9001), msg.ID)
	assert.Equal(t, int64(2001), msg.ChannelID)
	assert.Equal(t, int64(1001), msg.GuildID)
	assert.Equal(t, int64(7001), msg.AuthorID)
	assert.Equal(t, "alice", msg.AuthorName)
	assert.Equal(t, "hi @bob", msg.Content)
	assert.Equal(t, "Guild A", msg.GuildName)
	assert.Equal(t, entities.MessageKindReply, msg.Kind)
	assert.Equal(t, created, msg.CreatedAt)
	assert.True(t, msg.IsRelayable())
}

func TestToInboundMessage_NotRelayable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  *discordgo.Message
	}{
		{
			name: "direct message",
			msg:  &discordgo.Message{ID: "1", ChannelID: "2", Content: "hi", Author: &discordgo.User{ID: "3"}},
		},
		{
			name: "bot author",
			msg:  &discordgo.Message{ID: "1", ChannelID: "2", GuildID: "4", Content: "hi", Author: &discordgo.User{ID: "3", Bot: true}},
		},
		{
			name: "system message",
			msg: &discordgo.Message{ID: "1", ChannelID: "2", GuildID: "4", Content: "pinned",
				Type: discordgo.MessageTypeChannelPinnedMessage, Author: &discordgo.User{ID: "3"}},
		},
		{
			name: "empty content",
			msg:  &discordgo.Message{ID: "1", ChannelID: "2", GuildID: "4", Author: &discordgo.User{ID: "3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := toInboundMessage(tt.msg, nil)
			require.NoError(t, err)
			assert.False(t, msg.IsRelayable())
		})
	}
}

func TestToInboundMessage_InvalidID(t *testing.T) {
	t.Parallel()

	_, err := toInboundMessage(&discordgo.Message{ID: "abc", ChannelID: "2"}, nil)
	assert.Error(t, err)
}
