package interfaces

import (
	"context"

	"sincroni/domain/entities"
)

// RegistryReader is the read side of the registry consulted on the message path.
// Every method is an in-memory lookup.
type RegistryReader interface {
	GlobalChat(channelID int64) *entities.GlobalChatLink
	GlobalChatByScope(serverID int64, chatType entities.ChatType) *entities.GlobalChatLink
	GlobalChatsByType(chatType entities.ChatType) []*entities.GlobalChatLink
	GlobalChats() []*entities.GlobalChatLink
	Blacklist(serverID, entityID int64) *entities.Blacklist
	BlacklistsByServer(serverID int64) []*entities.Blacklist
	Blocks(serverID, entityID int64, chatType entities.ChatType) bool
	LinkedChannel(originChannelID int64) *entities.LinkedChannelPair
	EmbedColor(serverID int64, chatType entities.ChatType) *entities.EmbedColorOverride
	EmbedColorOr(serverID int64, chatType entities.ChatType, fallback int) int
}

// Registry is the full registry surface used by the admin services
type Registry interface {
	RegistryReader

	AddGlobalChat(ctx context.Context, serverID, channelID int64, chatType entities.ChatType, webhookURL *string) (*entities.GlobalChatLink, error)
	RemoveGlobalChat(ctx context.Context, channelID int64) (*entities.GlobalChatLink, error)
	AddBlacklist(ctx context.Context, blacklist *entities.Blacklist) (*entities.Blacklist, error)
	RemoveBlacklist(ctx context.Context, serverID, entityID int64) (*entities.Blacklist, error)
	AddLinkedChannel(ctx context.Context, originChannelID, destinationChannelID int64) (*entities.LinkedChannelPair, error)
	RemoveLinkedChannel(ctx context.Context, originChannelID int64) (*entities.LinkedChannelPair, error)
	SetEmbedColor(ctx context.Context, serverID int64, chatType entities.ChatType, color int) (*entities.EmbedColorOverride, error)
	ClearEmbedColor(ctx context.Context, serverID int64, chatType entities.ChatType) (*entities.EmbedColorOverride, error)
}

// ContentSanitizer redacts relayed text
type ContentSanitizer interface {
	Sanitize(text string) string
}
