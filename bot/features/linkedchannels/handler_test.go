package linkedchannels

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandInteraction(opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "3001",
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "linked",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name:    "link",
				Type:    discordgo.ApplicationCommandOptionSubCommand,
				Options: opts,
			}},
		},
	}}
}

func TestChannelOption(t *testing.T) {
	t.Parallel()

	t.Run("explicit option", func(t *testing.T) {
		i := commandInteraction(&discordgo.ApplicationCommandInteractionDataOption{
			Name: "destination", Type: discordgo.ApplicationCommandOptionChannel, Value: "3002",
		})

		id, err := channelOption(i, "destination", "")
		require.NoError(t, err)
		assert.Equal(t, int64(3002), id)
	})

	t.Run("falls back to invoking channel", func(t *testing.T) {
		i := commandInteraction()

		id, err := channelOption(i, "origin", i.ChannelID)
		require.NoError(t, err)
		assert.Equal(t, int64(3001), id)
	})

	t.Run("missing required option", func(t *testing.T) {
		_, err := channelOption(commandInteraction(), "destination", "")
		assert.Error(t, err)
	})
}
