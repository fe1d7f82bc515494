package interfaces

import (
	"context"

	"sincroni/domain/entities"
)

// GlobalChatLinkRepository persists global chat links
type GlobalChatLinkRepository interface {
	// GetAll returns every stored link
	GetAll(ctx context.Context) ([]*entities.GlobalChatLink, error)

	// GetByChannelID returns the link for a channel, or nil if none exists
	GetByChannelID(ctx context.Context, channelID int64) (*entities.GlobalChatLink, error)

	// Create inserts a link and returns the stored row.
	// Returns entities.ErrDuplicate on a uniqueness violation.
	Create(ctx context.Context, link *entities.GlobalChatLink) (*entities.GlobalChatLink, error)

	// Delete removes the link for a channel. Deleting a missing row is not an error.
	Delete(ctx context.Context, channelID int64) error
}

// BlacklistRepository persists blacklist rows
type BlacklistRepository interface {
	GetAll(ctx context.Context) ([]*entities.Blacklist, error)
	GetByKey(ctx context.Context, serverID, entityID int64) (*entities.Blacklist, error)

	// Create inserts a row and returns it with its generated id.
	// Returns entities.ErrDuplicate when (server, entity) already exists.
	Create(ctx context.Context, blacklist *entities.Blacklist) (*entities.Blacklist, error)

	Delete(ctx context.Context, serverID, entityID int64) error
}

// LinkedChannelRepository persists linked channel pairs
type LinkedChannelRepository interface {
	GetAll(ctx context.Context) ([]*entities.LinkedChannelPair, error)
	GetByOriginChannelID(ctx context.Context, originChannelID int64) (*entities.LinkedChannelPair, error)

	// Create inserts a pair and returns it with its generated id.
	// Returns entities.ErrDuplicate when the origin channel already has a pair.
	Create(ctx context.Context, originChannelID, destinationChannelID int64) (*entities.LinkedChannelPair, error)

	Delete(ctx context.Context, originChannelID int64) error
}

// EmbedColorRepository persists per-guild embed color overrides
type EmbedColorRepository interface {
	GetAll(ctx context.Context) ([]*entities.EmbedColorOverride, error)
	GetByKey(ctx context.Context, serverID int64, chatType entities.ChatType) (*entities.EmbedColorOverride, error)

	// Upsert inserts or replaces the override for (server, chat type)
	Upsert(ctx context.Context, override *entities.EmbedColorOverride) (*entities.EmbedColorOverride, error)

	Delete(ctx context.Context, serverID int64, chatType entities.ChatType) error
}

// RegistrySnapshot holds the full contents of the four relay tables
type RegistrySnapshot struct {
	GlobalChats    []*entities.GlobalChatLink
	Blacklists     []*entities.Blacklist
	LinkedChannels []*entities.LinkedChannelPair
	EmbedColors    []*entities.EmbedColorOverride
}

// RegistryStore groups the repositories backing the registry
type RegistryStore interface {
	GlobalChats() GlobalChatLinkRepository
	Blacklists() BlacklistRepository
	LinkedChannels() LinkedChannelRepository
	EmbedColors() EmbedColorRepository

	// LoadSnapshot reads all four tables from one consistent snapshot
	LoadSnapshot(ctx context.Context) (*RegistrySnapshot, error)
}
