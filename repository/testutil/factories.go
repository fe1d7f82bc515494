package testutil

import (
	"sincroni/domain/entities"
)

// CreateTestGlobalChat creates a direct-post link
func CreateTestGlobalChat(serverID, channelID int64, chatType entities.ChatType) *entities.GlobalChatLink {
	return entities.NewGlobalChatLink(serverID, channelID, chatType, nil)
}

// CreateTestWebhookChat creates a link delivered through a webhook
func CreateTestWebhookChat(serverID, channelID int64, chatType entities.ChatType, webhookURL string) *entities.GlobalChatLink {
	return entities.NewGlobalChatLink(serverID, channelID, chatType, &webhookURL)
}

// CreateTestBlacklist creates a row blocking entityID in the given scopes
func CreateTestBlacklist(serverID, entityID int64, kind entities.EntityKind, scopes ...entities.ChatType) *entities.Blacklist {
	var set entities.ScopeSet
	for _, s := range scopes {
		set = set.With(s)
	}
	return &entities.Blacklist{
		ServerID:   serverID,
		EntityID:   entityID,
		EntityKind: kind,
		Scopes:     set,
	}
}

// CreateTestEmbedColor creates a color override
func CreateTestEmbedColor(serverID int64, chatType entities.ChatType, color int) *entities.EmbedColorOverride {
	return &entities.EmbedColorOverride{
		ServerID:   serverID,
		ChatType:   chatType,
		ColorValue: color,
	}
}
