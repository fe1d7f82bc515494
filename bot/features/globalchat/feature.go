package globalchat

import (
	"sincroni/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the /global command
type Feature struct {
	globalChats *services.GlobalChatService
	blacklists  *services.BlacklistService
	colors      *services.EmbedColorService
}

// NewFeature creates a new global chat feature instance
func NewFeature(globalChats *services.GlobalChatService, blacklists *services.BlacklistService, colors *services.EmbedColorService) *Feature {
	return &Feature{
		globalChats: globalChats,
		blacklists:  blacklists,
		colors:      colors,
	}
}

// HandleCommand routes /global subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "rules":
		f.handleRules(s, i)
	case "link":
		f.handleLink(s, i)
	case "unlink":
		f.handleUnlink(s, i)
	case "blacklist":
		f.handleBlacklist(s, i)
	case "unblacklist":
		f.handleUnblacklist(s, i)
	case "blacklists":
		f.handleListBlacklists(s, i)
	case "color":
		f.handleColor(s, i)
	}
}
