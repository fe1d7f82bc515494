package services

import (
	"sincroni/domain/entities"
	"sincroni/domain/interfaces"
)

// DestinationResolver computes the global chat links a message fans out to
type DestinationResolver struct {
	registry interfaces.RegistryReader
}

// NewDestinationResolver creates a resolver over the registry
func NewDestinationResolver(registry interfaces.RegistryReader) *DestinationResolver {
	return &DestinationResolver{registry: registry}
}

// Resolve returns every link sharing the origin's chat type, except the origin
// itself and links of guilds the origin guild has blacklisted for that chat
// type. The result is ordered by channel id. Private links never broadcast and
// resolve to nothing. No network access happens here; missing channels are
// detected at delivery time.
func (r *DestinationResolver) Resolve(origin *entities.GlobalChatLink) []*entities.GlobalChatLink {
	if origin == nil || !origin.ChatType.IsBroadcast() {
		return nil
	}

	candidates := r.registry.GlobalChatsByType(origin.ChatType)
	destinations := make([]*entities.GlobalChatLink, 0, len(candidates))
	for _, link := range candidates {
		if link.ChannelID == origin.ChannelID {
			continue
		}
		if r.originBlocksServer(origin, link.ServerID) {
			continue
		}
		destinations = append(destinations, link)
	}
	return destinations
}

func (r *DestinationResolver) originBlocksServer(origin *entities.GlobalChatLink, serverID int64) bool {
	row := r.registry.Blacklist(origin.ServerID, serverID)
	return row != nil && row.EntityKind == entities.EntityKindServer && row.Blocks(origin.ChatType)
}
