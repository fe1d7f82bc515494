package services

import (
	"context"
	"slices"
	"strconv"

	"sincroni/domain/entities"
	"sincroni/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// GlobalChatService links and unlinks channels to chat scopes on behalf of guild admins
type GlobalChatService struct {
	registry interfaces.Registry
}

// NewGlobalChatService creates a new GlobalChatService
func NewGlobalChatService(registry interfaces.Registry) *GlobalChatService {
	return &GlobalChatService{registry: registry}
}

// Link opts a channel into a broadcast chat scope. webhookURL may be nil, in
// which case copies are posted directly into the channel.
func (s *GlobalChatService) Link(ctx context.Context, serverID, channelID int64, chatType entities.ChatType, webhookURL *string) (*entities.GlobalChatLink, error) {
	if serverID == 0 {
		return nil, entities.NewValidationError("server", "0", "global chats can only be linked inside a server")
	}
	if !chatType.IsBroadcast() {
		return nil, entities.NewValidationError("chat type", chatType.String(), "only public, developer and repeat chats can be linked")
	}
	if webhookURL != nil {
		if _, err := entities.ParseWebhookURL(*webhookURL); err != nil {
			return nil, entities.NewValidationError("webhook", "", err.Error())
		}
	}

	link, err := s.registry.AddGlobalChat(ctx, serverID, channelID, chatType, webhookURL)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guild_id":   serverID,
		"channel_id": channelID,
		"chat_type":  chatType.String(),
		"delivery":   link.Delivery().Kind.String(),
	}).Info("Linked global chat")
	return link, nil
}

// Unlink removes a channel from its chat scope
func (s *GlobalChatService) Unlink(ctx context.Context, channelID int64) (*entities.GlobalChatLink, error) {
	if s.registry.GlobalChat(channelID) == nil {
		return nil, entities.NewValidationError("channel", strconv.FormatInt(channelID, 10), "is not linked as a global chat")
	}

	removed, err := s.registry.RemoveGlobalChat(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, entities.NewValidationError("channel", strconv.FormatInt(channelID, 10), "is not linked as a global chat")
	}

	log.WithFields(log.Fields{
		"guild_id":   removed.ServerID,
		"channel_id": removed.ChannelID,
		"chat_type":  removed.ChatType.String(),
	}).Info("Unlinked global chat")
	return removed, nil
}

// Get returns the link of a channel, or nil
func (s *GlobalChatService) Get(channelID int64) *entities.GlobalChatLink {
	return s.registry.GlobalChat(channelID)
}

// LinkedServers returns the ids of guilds holding at least one global chat
// link, ascending, without exclude
func (s *GlobalChatService) LinkedServers(exclude int64) []int64 {
	seen := make(map[int64]struct{})
	var out []int64
	for _, link := range s.registry.GlobalChats() {
		if link.ServerID == exclude {
			continue
		}
		if _, ok := seen[link.ServerID]; ok {
			continue
		}
		seen[link.ServerID] = struct{}{}
		out = append(out, link.ServerID)
	}
	slices.Sort(out)
	return out
}
