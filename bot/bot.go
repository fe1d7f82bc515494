package bot

import (
	"context"
	"fmt"

	"sincroni/bot/features/globalchat"
	"sincroni/bot/features/linkedchannels"
	"sincroni/domain/interfaces"
	"sincroni/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token            string
	ModWebhookURL    string // Empty disables the moderation copy
	BlockedAvatarURL string
	SourceURL        string
	Relay            services.RelayConfig
}

// Dependencies are the domain collaborators the bot drives
type Dependencies struct {
	Registry  interfaces.Registry
	Sanitizer interfaces.ContentSanitizer
	Publisher interfaces.EventPublisher
	Metrics   interfaces.RelayMetrics
}

// Bot owns the Discord session and routes gateway events to the relay and
// to the admin commands
type Bot struct {
	config  Config
	session *discordgo.Session

	relay  *services.RelayService
	mirror *services.MirrorService

	globalChat     *globalchat.Feature
	linkedChannels *linkedchannels.Feature
}

// New creates the session, wires the relay and opens the gateway connection
func New(config Config, deps Dependencies) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	bot, err := newBot(dg, config, deps)
	if err != nil {
		return nil, err
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func newBot(dg *discordgo.Session, config Config, deps Dependencies) (*Bot, error) {
	platform := NewPlatform(dg, dg.State)

	var audit interfaces.AuditSink
	if config.ModWebhookURL != "" {
		sink, err := NewAuditWebhook(dg, config.ModWebhookURL, config.Relay.DefaultColor, config.BlockedAvatarURL)
		if err != nil {
			return nil, err
		}
		audit = sink
	} else {
		log.Warn("MOD_WEBHOOK_URL is not set, moderation copies are disabled")
	}

	return &Bot{
		config:  config,
		session: dg,
		relay: services.NewRelayService(
			deps.Registry, deps.Sanitizer, platform, audit, deps.Publisher, deps.Metrics, config.Relay,
		),
		mirror: services.NewMirrorService(
			deps.Registry, deps.Sanitizer, platform, deps.Metrics, config.Relay,
		),
		globalChat: globalchat.NewFeature(
			services.NewGlobalChatService(deps.Registry),
			services.NewBlacklistService(deps.Registry),
			services.NewEmbedColorService(deps.Registry),
		),
		linkedChannels: linkedchannels.NewFeature(services.NewLinkedChannelService(deps.Registry)),
	}, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.String(),
		"guilds": len(r.Guilds),
	}).Info("Bot is ready")
}

// handleCommands routes slash commands to their feature
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "global":
			b.globalChat.HandleCommand(s, i)
		case "linked":
			b.linkedChannels.HandleCommand(s, i)
		case "source":
			b.handleSourceCommand(s, i)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		if i.ApplicationCommandData().Name == "global" {
			b.globalChat.HandleAutocomplete(s, i)
		}
	}
}

// handleMessageCreate relays guild messages posted in global chats and
// mirrors those posted in linked channels
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.GuildID == "" {
		return
	}
	// Our own relay copies must never be relayed again
	if s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	guild, _ := s.State.Guild(m.GuildID)
	msg, err := toInboundMessage(m.Message, guild)
	if err != nil {
		log.WithError(err).WithField("message_id", m.ID).Warn("Failed to read message")
		return
	}
	if !msg.IsRelayable() {
		return
	}

	// Each delivery carries its own timeout
	ctx := context.Background()

	if result := b.relay.HandleMessage(ctx, msg); result != nil {
		log.WithFields(log.Fields{
			"relay_id":   result.RelayID,
			"guild_id":   msg.GuildID,
			"channel_id": msg.ChannelID,
			"message_id": msg.ID,
			"chat_type":  result.ChatType.String(),
			"blocked":    result.Blocked,
			"delivered":  len(result.Delivered),
			"skipped":    len(result.Skipped),
			"failed":     len(result.Failed),
		}).Debug("Relay finished")
	}

	b.mirror.HandleMessage(ctx, msg)
}
