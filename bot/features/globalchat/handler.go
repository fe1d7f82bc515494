package globalchat

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"sincroni/bot/common"
	"sincroni/domain/entities"
	"sincroni/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const commandTimeout = 10 * time.Second

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

func subcommandOptions(i *discordgo.InteractionCreate) optionMap {
	opts := make(optionMap)
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return opts
	}
	for _, opt := range data.Options[0].Options {
		opts[opt.Name] = opt
	}
	return opts
}

// targetChannel returns the channel named by the "channel" option, or the
// channel the command was used in
func targetChannel(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) (*discordgo.Channel, error) {
	if opt, ok := opts["channel"]; ok {
		id := opt.Value.(string)
		if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
			if ch, ok := resolved.Channels[id]; ok {
				return ch, nil
			}
		}
		return s.Channel(id)
	}
	if ch, err := s.State.Channel(i.ChannelID); err == nil {
		return ch, nil
	}
	return s.Channel(i.ChannelID)
}

func (f *Feature) handleRules(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title:       "Rules",
		Description: Rules,
		Color:       services.DefaultEmbedColor,
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

func (f *Feature) handleLink(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.RequireManageGuild(s, i) {
		return
	}

	opts := subcommandOptions(i)
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to parse guild ID"))
		return
	}

	chatType, err := entities.ParseChatType(opts["type"].StringValue())
	if err != nil {
		common.HandleError(s, i, common.NewUserError(err.Error(), "Invalid chat type"))
		return
	}

	channel, err := targetChannel(s, i, opts)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to resolve channel"))
		return
	}
	channelID, err := common.ParseSnowflake(channel.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to parse channel ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	hook := createRelayWebhook(s, i, channel)
	var webhookURL *string
	if hook != nil {
		url := discordgo.EndpointWebhookToken(hook.ID, hook.Token)
		webhookURL = &url
	}

	link, err := f.globalChats.Link(ctx, guildID, channelID, chatType, webhookURL)
	if err != nil {
		if hook != nil {
			if delErr := s.WebhookDelete(hook.ID); delErr != nil {
				log.WithError(delErr).WithField("webhook_id", hook.ID).Warn("Failed to delete unused webhook")
			}
		}
		common.HandleError(s, i, common.FromDomainError(err, "Failed to link global chat"))
		return
	}

	message := fmt.Sprintf("%s is now linked to the `%s` global chat.", common.ChannelMention(channelID), chatType)
	if !link.HasWebhook() {
		message += " Messages will be posted by the bot because no webhook could be created."
	}
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// createRelayWebhook creates the webhook relay copies are posted through when
// both the bot and the invoking member may manage webhooks in the channel.
// Threads get the webhook on their parent channel.
func createRelayWebhook(s *discordgo.Session, i *discordgo.InteractionCreate, channel *discordgo.Channel) *discordgo.Webhook {
	memberPerms := channel.Permissions
	if memberPerms == 0 && i.Member != nil {
		memberPerms = i.Member.Permissions
	}
	if memberPerms&discordgo.PermissionManageWebhooks == 0 {
		return nil
	}

	botPerms, err := s.UserChannelPermissions(s.State.User.ID, channel.ID)
	if err != nil || botPerms&discordgo.PermissionManageWebhooks == 0 {
		return nil
	}

	webhookChannelID := channel.ID
	if channel.IsThread() && channel.ParentID != "" {
		webhookChannelID = channel.ParentID
	}

	hook, err := s.WebhookCreate(webhookChannelID, s.State.User.Username+" GC", "")
	if err != nil {
		log.WithError(err).WithField("channel_id", webhookChannelID).Warn("Failed to create relay webhook")
		return nil
	}
	return hook
}

func (f *Feature) handleUnlink(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.RequireManageGuild(s, i) {
		return
	}

	opts := subcommandOptions(i)
	channel, err := targetChannel(s, i, opts)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to resolve channel"))
		return
	}
	channelID, err := common.ParseSnowflake(channel.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to parse channel ID"))
		return
	}

	if existing := f.globalChats.Get(channelID); existing != nil && common.FormatSnowflake(existing.ServerID) != i.GuildID {
		common.HandleError(s, i, common.NewUserError("That channel belongs to another server.", "Cross-guild unlink attempt"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	link, err := f.globalChats.Unlink(ctx, channelID)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Failed to unlink global chat"))
		return
	}

	if hook := link.Delivery().Webhook; hook != nil {
		if _, err := s.WebhookDeleteWithToken(hook.ID, hook.Token); err != nil {
			log.WithError(err).WithField("webhook_id", hook.ID).Debug("Failed to delete relay webhook")
		}
	}

	log.WithFields(log.Fields{
		"guild_id":   link.ServerID,
		"channel_id": channelID,
		"chat_type":  link.ChatType.String(),
	}).Info("Unlinked global chat")

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("%s is no longer a global chat.", common.ChannelMention(channelID)), false); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// blacklistTarget reads the user or server option. Exactly one must be given.
func blacklistTarget(opts optionMap) (int64, entities.EntityKind, error) {
	userOpt, hasUser := opts["user"]
	serverOpt, hasServer := opts["server"]

	switch {
	case hasUser && hasServer:
		return 0, 0, fmt.Errorf("pick either a user or a server, not both")
	case hasUser:
		id, err := common.ParseSnowflake(userOpt.UserValue(nil).ID)
		return id, entities.EntityKindUser, err
	case hasServer:
		id, err := common.ParseSnowflake(strings.TrimSpace(serverOpt.StringValue()))
		if err != nil {
			return 0, 0, fmt.Errorf("%q is not a server id", serverOpt.StringValue())
		}
		return id, entities.EntityKindServer, nil
	default:
		return 0, 0, fmt.Errorf("pick a user or a server")
	}
}

func (f *Feature) handleBlacklist(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.RequireManageGuild(s, i) {
		return
	}

	opts := subcommandOptions(i)
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to parse guild ID"))
		return
	}

	entityID, kind, err := blacklistTarget(opts)
	if err != nil {
		common.HandleError(s, i, common.NewUserError(err.Error(), "Invalid blacklist target"))
		return
	}

	params := services.BlacklistParams{
		ServerID:   guildID,
		EntityID:   entityID,
		EntityKind: kind,
		Scopes:     scopesFromOptions(opts),
	}
	if opt, ok := opts["reason"]; ok {
		params.Reason = opt.StringValue()
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	entry, err := f.blacklists.Add(ctx, params)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Failed to add blacklist entry"))
		return
	}

	log.WithFields(log.Fields{
		"guild_id":    guildID,
		"entity_id":   entityID,
		"entity_kind": kind.String(),
		"scopes":      entry.Scopes.String(),
	}).Info("Added blacklist entry")

	message := fmt.Sprintf("Blacklisted %s `%d` from %s.", kind, entityID, common.FormatScopes(entry.Scopes))
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// scopesFromOptions reads the per-chat toggles; public defaults to on
func scopesFromOptions(opts optionMap) entities.ScopeSet {
	toggles := []struct {
		name     string
		chatType entities.ChatType
		def      bool
	}{
		{"public", entities.ChatTypePublic, true},
		{"developer", entities.ChatTypeDeveloper, false},
		{"repeat", entities.ChatTypeRepeat, false},
	}

	var scopes entities.ScopeSet
	for _, toggle := range toggles {
		enabled := toggle.def
		if opt, ok := opts[toggle.name]; ok {
			enabled = opt.BoolValue()
		}
		if enabled {
			scopes = scopes.With(toggle.chatType)
		}
	}
	return scopes
}

func (f *Feature) handleUnblacklist(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.RequireManageGuild(s, i) {
		return
	}

	opts := subcommandOptions(i)
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to parse guild ID"))
		return
	}

	entityID, kind, err := blacklistTarget(opts)
	if err != nil {
		common.HandleError(s, i, common.NewUserError(err.Error(), "Invalid blacklist target"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := f.blacklists.Remove(ctx, guildID, entityID); err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Failed to remove blacklist entry"))
		return
	}

	log.WithFields(log.Fields{
		"guild_id":  guildID,
		"entity_id": entityID,
	}).Info("Removed blacklist entry")

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Removed %s `%d` from the blacklist.", kind, entityID), true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

func (f *Feature) handleListBlacklists(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.RequireManageGuild(s, i) {
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to parse guild ID"))
		return
	}

	if err := common.RespondWithEmbed(s, i, blacklistEmbed(f.blacklists.ListServerEntries(guildID)), true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// Embed descriptions are capped at 4096 characters.
const maxDescriptionLength = 4000

func blacklistEmbed(entries []*entities.Blacklist) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Blacklist",
		Color: services.DefaultEmbedColor,
	}
	if len(entries) == 0 {
		embed.Description = "Nothing is blacklisted in this server."
		return embed
	}

	var b strings.Builder
	for n, entry := range entries {
		line := fmt.Sprintf("%s `%d`: %s", entry.EntityKind, entry.EntityID, common.FormatScopes(entry.Scopes))
		if entry.Reason != nil && *entry.Reason != "" {
			line += " (" + *entry.Reason + ")"
		}
		if b.Len()+len(line)+1 > maxDescriptionLength {
			fmt.Fprintf(&b, "…and %d more", len(entries)-n)
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	embed.Description = b.String()
	return embed
}

var resetWords = map[string]bool{"reset": true, "default": true, "none": true}

func (f *Feature) handleColor(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.RequireManageGuild(s, i) {
		return
	}

	opts := subcommandOptions(i)
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to parse guild ID"))
		return
	}

	chatType, err := entities.ParseChatType(opts["type"].StringValue())
	if err != nil {
		common.HandleError(s, i, common.NewUserError(err.Error(), "Invalid chat type"))
		return
	}
	raw := strings.TrimSpace(opts["color"].StringValue())

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if resetWords[strings.ToLower(raw)] {
		if _, err := f.colors.Clear(ctx, guildID, chatType); err != nil {
			common.HandleError(s, i, common.FromDomainError(err, "Failed to clear embed color"))
			return
		}
		message := fmt.Sprintf("The `%s` chat color is back to the default %s.", chatType, common.FormatColorHex(services.DefaultEmbedColor))
		if err := common.RespondWithSuccess(s, i, message, true); err != nil {
			log.Errorf("Failed to respond to interaction: %v", err)
		}
		return
	}

	override, err := f.colors.Set(ctx, guildID, chatType, raw)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Failed to set embed color"))
		return
	}

	log.WithFields(log.Fields{
		"guild_id":  guildID,
		"chat_type": chatType.String(),
		"color":     common.FormatColorHex(override.ColorValue),
	}).Info("Set embed color")

	embed := &discordgo.MessageEmbed{
		Title:       "Embed color updated",
		Description: fmt.Sprintf("Messages from this server in the `%s` chat now use %s.", chatType, common.FormatColorHex(override.ColorValue)),
		Color:       override.ColorValue,
	}

	preview, err := RenderColorPreview(override.ColorValue)
	if err != nil {
		log.WithError(err).Warn("Failed to render color preview")
		if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
			log.Errorf("Failed to respond to interaction: %v", err)
		}
		return
	}

	embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: "attachment://color.png"}
	if err := common.RespondWithEmbedFile(s, i, embed, "color.png", "image/png", bytes.NewReader(preview)); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}
