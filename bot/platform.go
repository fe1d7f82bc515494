package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"sincroni/bot/common"
	"sincroni/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// discordAPI is the subset of *discordgo.Session the relay needs
type discordAPI interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	WebhookThreadExecute(webhookID, token string, wait bool, threadID string, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Platform implements interfaces.ChatPlatform over a discordgo session
type Platform struct {
	api   discordAPI
	state *discordgo.State
}

// NewPlatform creates a platform adapter. state may be nil, in which case
// every channel lookup goes to the REST API.
func NewPlatform(api discordAPI, state *discordgo.State) *Platform {
	return &Platform{api: api, state: state}
}

// ResolveChannel returns the channel from the state cache or the API. A
// channel the API reports as unknown resolves to nil without error.
func (p *Platform) ResolveChannel(ctx context.Context, channelID int64) (*entities.ChannelInfo, error) {
	id := common.FormatSnowflake(channelID)

	if p.state != nil {
		if channel, err := p.state.Channel(id); err == nil {
			return toChannelInfo(channel)
		}
	}

	channel, err := p.api.Channel(id, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownChannel(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch channel %d: %w", channelID, err)
	}
	return toChannelInfo(channel)
}

// SendChannelMessage posts msg directly into a channel with mentions disabled
func (p *Platform) SendChannelMessage(ctx context.Context, channelID int64, msg *entities.OutboundMessage) error {
	_, err := p.api.ChannelMessageSendComplex(common.FormatSnowflake(channelID), &discordgo.MessageSend{
		Embeds:          []*discordgo.MessageEmbed{toMessageEmbed(msg.Embed)},
		AllowedMentions: common.NoMentions(),
	}, discordgo.WithContext(ctx))
	return err
}

// ExecuteWebhook posts msg through hook, into threadID when it is non-zero
func (p *Platform) ExecuteWebhook(ctx context.Context, hook entities.WebhookHandle, threadID int64, msg *entities.OutboundMessage) error {
	params := &discordgo.WebhookParams{
		Username:        msg.Username,
		AvatarURL:       msg.AvatarURL,
		Embeds:          []*discordgo.MessageEmbed{toMessageEmbed(msg.Embed)},
		AllowedMentions: common.NoMentions(),
	}

	var err error
	if threadID != 0 {
		_, err = p.api.WebhookThreadExecute(hook.ID, hook.Token, false, common.FormatSnowflake(threadID), params, discordgo.WithContext(ctx))
	} else {
		_, err = p.api.WebhookExecute(hook.ID, hook.Token, false, params, discordgo.WithContext(ctx))
	}
	if isUnknownWebhook(err) {
		return fmt.Errorf("%w: %w", entities.ErrWebhookGone, err)
	}
	return err
}

func toChannelInfo(channel *discordgo.Channel) (*entities.ChannelInfo, error) {
	id, err := common.ParseSnowflake(channel.ID)
	if err != nil {
		return nil, err
	}

	info := &entities.ChannelInfo{ID: id, IsThread: channel.IsThread()}
	if channel.GuildID != "" {
		if info.GuildID, err = common.ParseSnowflake(channel.GuildID); err != nil {
			return nil, err
		}
	}
	if channel.ParentID != "" {
		if info.ParentID, err = common.ParseSnowflake(channel.ParentID); err != nil {
			return nil, err
		}
	}
	return info, nil
}

func isUnknownChannel(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownChannel {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

func isUnknownWebhook(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownWebhook {
		return true
	}
	if restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusNotFound || restErr.Response.StatusCode == http.StatusUnauthorized
}
