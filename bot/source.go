package bot

import (
	"time"

	"sincroni/bot/common"
	"sincroni/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func sourceEmbed(url string, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Github link",
		URL:         url,
		Description: url,
		Color:       services.DefaultEmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Source code is available under the MIT license"},
		Timestamp:   now.UTC().Format(time.RFC3339),
	}
}

// handleSourceCommand answers /source. Anyone may run it.
func (b *Bot) handleSourceCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.RespondWithEmbed(s, i, sourceEmbed(b.config.SourceURL, time.Now()), false); err != nil {
		log.WithError(err).Error("Failed to respond to source command")
	}
}
