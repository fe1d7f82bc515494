package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var manageGuild int64 = discordgo.PermissionManageGuild

func chatTypeOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "type",
		Description: description,
		Required:    true,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "Public", Value: "public"},
			{Name: "Developer", Value: "developer"},
			{Name: "Repeat", Value: "repeat"},
		},
	}
}

func channelOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionChannel,
		Name:        name,
		Description: description,
		Required:    required,
		ChannelTypes: []discordgo.ChannelType{
			discordgo.ChannelTypeGuildText,
			discordgo.ChannelTypeGuildNews,
			discordgo.ChannelTypeGuildPublicThread,
			discordgo.ChannelTypeGuildPrivateThread,
		},
	}
}

func blacklistTargetOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to target",
		},
		{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "server",
			Description:  "Server ID to target",
			Autocomplete: true,
		},
	}
}

// commandDefinitions returns every slash command the bot registers
func commandDefinitions() []*discordgo.ApplicationCommand {
	blacklistOptions := append(blacklistTargetOptions(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Why the entity is blacklisted",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "public",
			Description: "Block from the public chat (default: yes)",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "developer",
			Description: "Block from the developer chat (default: no)",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "repeat",
			Description: "Block from the repeat chat (default: no)",
		},
	)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "global",
			Description:              "Manage the global chats of this server",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "link",
					Description: "Link a channel to a global chat",
					Options: []*discordgo.ApplicationCommandOption{
						chatTypeOption("Global chat to join"),
						channelOption("channel", "Channel to link (default: this channel)", false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unlink",
					Description: "Remove a channel from its global chat",
					Options: []*discordgo.ApplicationCommandOption{
						channelOption("channel", "Channel to unlink (default: this channel)", false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "blacklist",
					Description: "Stop a user or server from reaching this server",
					Options:     blacklistOptions,
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unblacklist",
					Description: "Lift a blacklist entry of this server",
					Options:     blacklistTargetOptions(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "blacklists",
					Description: "Show the blacklist of this server",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "color",
					Description: "Set the embed color of this server's messages",
					Options: []*discordgo.ApplicationCommandOption{
						chatTypeOption("Global chat the color applies to"),
						{
							Type:         discordgo.ApplicationCommandOptionString,
							Name:         "color",
							Description:  "Hex (#EB6D15), decimal, a color name, random, or reset",
							Required:     true,
							Autocomplete: true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "rules",
					Description: "Show the global chat rules",
				},
			},
		},
		{
			Name:        "source",
			Description: "Show where the bot's source code lives",
		},
		{
			Name:                     "linked",
			Description:              "Mirror one channel into another",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "link",
					Description: "Mirror messages from a channel into another",
					Options: []*discordgo.ApplicationCommandOption{
						channelOption("destination", "Channel receiving the copies", true),
						channelOption("origin", "Channel to mirror (default: this channel)", false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unlink",
					Description: "Stop mirroring a channel",
					Options: []*discordgo.ApplicationCommandOption{
						channelOption("origin", "Mirrored channel (default: this channel)", false),
					},
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}
