package registry

import (
	"context"
	"sort"
	"strconv"

	"sincroni/domain/entities"
	"sincroni/domain/events"

	log "github.com/sirupsen/logrus"
)

// indexGlobalChat stores a copy of link and resolves its delivery method.
// Callers must hold r.mu for writing.
func (r *Registry) indexGlobalChat(link *entities.GlobalChatLink) *entities.GlobalChatLink {
	stored := link.Clone()
	if rejected := stored.ResolveDelivery(); rejected {
		log.WithFields(log.Fields{
			"guild_id":   stored.ServerID,
			"channel_id": stored.ChannelID,
			"chat_type":  stored.ChatType.String(),
		}).Warn("Stored webhook URL is not a valid webhook, falling back to direct posts")
	}

	r.globalChats[stored.ChannelID] = stored
	r.chatsByScope[stored.ScopeKey()] = stored.ChannelID
	byType, ok := r.chatsByType[stored.ChatType]
	if !ok {
		byType = make(map[int64]struct{})
		r.chatsByType[stored.ChatType] = byType
	}
	byType[stored.ChannelID] = struct{}{}
	return stored
}

// Callers must hold r.mu for writing.
func (r *Registry) unindexGlobalChat(link *entities.GlobalChatLink) {
	delete(r.globalChats, link.ChannelID)
	if r.chatsByScope[link.ScopeKey()] == link.ChannelID {
		delete(r.chatsByScope, link.ScopeKey())
	}
	if byType, ok := r.chatsByType[link.ChatType]; ok {
		delete(byType, link.ChannelID)
		if len(byType) == 0 {
			delete(r.chatsByType, link.ChatType)
		}
	}
}

// GlobalChat returns the link of a channel, or nil if the channel is not linked
func (r *Registry) GlobalChat(channelID int64) *entities.GlobalChatLink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.globalChats[channelID].Clone()
}

// GlobalChatByScope returns the link a guild holds for a chat type, or nil
func (r *Registry) GlobalChatByScope(serverID int64, chatType entities.ChatType) *entities.GlobalChatLink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channelID, ok := r.chatsByScope[entities.ServerScopeKey{ServerID: serverID, ChatType: chatType}]
	if !ok {
		return nil
	}
	return r.globalChats[channelID].Clone()
}

// GlobalChatsByType returns every link of one chat type ordered by channel id
func (r *Registry) GlobalChatsByType(chatType entities.ChatType) []*entities.GlobalChatLink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := sortedKeys(r.chatsByType[chatType])
	out := make([]*entities.GlobalChatLink, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.globalChats[id].Clone())
	}
	return out
}

// GlobalChats returns every link ordered by channel id
func (r *Registry) GlobalChats() []*entities.GlobalChatLink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entities.GlobalChatLink, 0, len(r.globalChats))
	for _, link := range r.globalChats {
		out = append(out, link.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out
}

// AddGlobalChat links a channel into a chat scope. It fails with a
// ValidationError if the channel is already linked or the guild already holds
// a link for the chat type; the index is left unchanged on any error.
func (r *Registry) AddGlobalChat(ctx context.Context, serverID, channelID int64, chatType entities.ChatType, webhookURL *string) (*entities.GlobalChatLink, error) {
	if !chatType.IsValid() {
		return nil, entities.NewValidationError("chat type", chatType.String(), "unknown chat type")
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if existing := r.GlobalChat(channelID); existing != nil {
		return nil, entities.NewValidationError("channel", strconv.FormatInt(channelID, 10),
			"is already linked to the "+existing.ChatType.String()+" chat")
	}
	if existing := r.GlobalChatByScope(serverID, chatType); existing != nil {
		return nil, entities.NewValidationError("chat type", chatType.String(),
			"this server already has a "+chatType.String()+" chat linked in channel "+strconv.FormatInt(existing.ChannelID, 10))
	}

	created, err := r.store.GlobalChats().Create(ctx, entities.NewGlobalChatLink(serverID, channelID, chatType, webhookURL))
	if err != nil {
		return nil, storageError("create global chat link", err, "channel", strconv.FormatInt(channelID, 10))
	}

	r.mu.Lock()
	stored := r.indexGlobalChat(created)
	r.mu.Unlock()

	r.publish(ctx, events.GlobalChatLinkedEvent{
		ServerID:   stored.ServerID,
		ChannelID:  stored.ChannelID,
		ChatType:   stored.ChatType.String(),
		HasWebhook: stored.HasWebhook(),
	})
	return stored.Clone(), nil
}

// RemoveGlobalChat unlinks a channel and returns the removed link, or nil if
// the channel was not linked
func (r *Registry) RemoveGlobalChat(ctx context.Context, channelID int64) (*entities.GlobalChatLink, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	existing := r.GlobalChat(channelID)
	if err := r.store.GlobalChats().Delete(ctx, channelID); err != nil {
		return nil, &entities.PersistenceError{Op: "delete global chat link", Err: err}
	}
	if existing == nil {
		return nil, nil
	}

	r.mu.Lock()
	r.unindexGlobalChat(existing)
	r.mu.Unlock()

	r.publish(ctx, events.GlobalChatUnlinkedEvent{
		ServerID:  existing.ServerID,
		ChannelID: existing.ChannelID,
		ChatType:  existing.ChatType.String(),
	})
	return existing, nil
}
