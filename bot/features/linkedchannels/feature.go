package linkedchannels

import (
	"sincroni/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the /linked command
type Feature struct {
	links *services.LinkedChannelService
}

// NewFeature creates a new linked channels feature instance
func NewFeature(links *services.LinkedChannelService) *Feature {
	return &Feature{links: links}
}

// HandleCommand routes /linked subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "link":
		f.handleLink(s, i)
	case "unlink":
		f.handleUnlink(s, i)
	}
}
