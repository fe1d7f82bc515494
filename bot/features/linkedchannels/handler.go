package linkedchannels

import (
	"context"
	"fmt"
	"time"

	"sincroni/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const commandTimeout = 10 * time.Second

// channelOption returns the id of the named channel option, or fallback
func channelOption(i *discordgo.InteractionCreate, name, fallback string) (int64, error) {
	data := i.ApplicationCommandData()
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			if opt.Name == name {
				return common.ParseSnowflake(opt.Value.(string))
			}
		}
	}
	return common.ParseSnowflake(fallback)
}

func (f *Feature) handleLink(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.RequireManageGuild(s, i) {
		return
	}

	origin, err := channelOption(i, "origin", i.ChannelID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to parse origin channel"))
		return
	}
	destination, err := channelOption(i, "destination", "")
	if err != nil {
		common.HandleError(s, i, common.NewUserError("Pick a destination channel.", "Missing destination channel"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := f.links.Link(ctx, origin, destination); err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Failed to link channels"))
		return
	}

	log.WithFields(log.Fields{
		"guild_id":               i.GuildID,
		"origin_channel_id":      origin,
		"destination_channel_id": destination,
	}).Info("Linked channel pair")

	message := fmt.Sprintf("Messages in %s are now mirrored to %s.", common.ChannelMention(origin), common.ChannelMention(destination))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

func (f *Feature) handleUnlink(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.RequireManageGuild(s, i) {
		return
	}

	origin, err := channelOption(i, "origin", i.ChannelID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to parse origin channel"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	pair, err := f.links.Unlink(ctx, origin)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Failed to unlink channels"))
		return
	}

	log.WithFields(log.Fields{
		"guild_id":               i.GuildID,
		"origin_channel_id":      pair.OriginChannelID,
		"destination_channel_id": pair.DestinationChannelID,
	}).Info("Unlinked channel pair")

	message := fmt.Sprintf("%s is no longer mirrored to %s.", common.ChannelMention(pair.OriginChannelID), common.ChannelMention(pair.DestinationChannelID))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}
