package registry

import (
	"context"
	"sort"
	"strconv"

	"sincroni/domain/entities"
	"sincroni/domain/events"
)

// EmbedColor returns the override a guild set for a chat type, or nil
func (r *Registry) EmbedColor(serverID int64, chatType entities.ChatType) *entities.EmbedColorOverride {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.colors[entities.ServerScopeKey{ServerID: serverID, ChatType: chatType}].Clone()
}

// EmbedColorOr returns the override color for (server, chat type) or fallback
func (r *Registry) EmbedColorOr(serverID int64, chatType entities.ChatType, fallback int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.colors[entities.ServerScopeKey{ServerID: serverID, ChatType: chatType}]; ok {
		return c.ColorValue
	}
	return fallback
}

// EmbedColors returns every override ordered by server then chat type
func (r *Registry) EmbedColors() []*entities.EmbedColorOverride {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entities.EmbedColorOverride, 0, len(r.colors))
	for _, c := range r.colors {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ServerID != out[j].ServerID {
			return out[i].ServerID < out[j].ServerID
		}
		return out[i].ChatType < out[j].ChatType
	})
	return out
}

// SetEmbedColor creates or replaces the override for (server, chat type)
func (r *Registry) SetEmbedColor(ctx context.Context, serverID int64, chatType entities.ChatType, color int) (*entities.EmbedColorOverride, error) {
	if !chatType.IsValid() {
		return nil, entities.NewValidationError("chat type", chatType.String(), "unknown chat type")
	}
	if color < 0 || color > entities.MaxColorValue {
		return nil, entities.NewValidationError("color", strconv.Itoa(color), "must be between 0 and 0xFFFFFF")
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	stored, err := r.store.EmbedColors().Upsert(ctx, &entities.EmbedColorOverride{
		ServerID:   serverID,
		ChatType:   chatType,
		ColorValue: color,
	})
	if err != nil {
		return nil, &entities.PersistenceError{Op: "upsert embed color", Err: err}
	}

	stored = stored.Clone()
	r.mu.Lock()
	r.colors[stored.Key()] = stored
	r.mu.Unlock()

	r.publish(ctx, events.EmbedColorSetEvent{
		ServerID:   stored.ServerID,
		ChatType:   stored.ChatType.String(),
		ColorValue: stored.ColorValue,
	})
	return stored.Clone(), nil
}

// ClearEmbedColor removes the override for (server, chat type) and returns it,
// or nil if there was none
func (r *Registry) ClearEmbedColor(ctx context.Context, serverID int64, chatType entities.ChatType) (*entities.EmbedColorOverride, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	existing := r.EmbedColor(serverID, chatType)
	if err := r.store.EmbedColors().Delete(ctx, serverID, chatType); err != nil {
		return nil, &entities.PersistenceError{Op: "delete embed color", Err: err}
	}
	if existing == nil {
		return nil, nil
	}

	r.mu.Lock()
	delete(r.colors, existing.Key())
	r.mu.Unlock()

	r.publish(ctx, events.EmbedColorClearedEvent{ServerID: serverID, ChatType: chatType.String()})
	return existing, nil
}
