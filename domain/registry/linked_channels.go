package registry

import (
	"context"
	"sort"
	"strconv"

	"sincroni/domain/entities"
	"sincroni/domain/events"
)

// LinkedChannel returns the mirror pair of an origin channel, or nil
func (r *Registry) LinkedChannel(originChannelID int64) *entities.LinkedChannelPair {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.linked[originChannelID].Clone()
}

// LinkedChannels returns every pair ordered by origin channel
func (r *Registry) LinkedChannels() []*entities.LinkedChannelPair {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entities.LinkedChannelPair, 0, len(r.linked))
	for _, p := range r.linked {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OriginChannelID < out[j].OriginChannelID })
	return out
}

// AddLinkedChannel stores a mirror pair. An origin channel may have one pair.
func (r *Registry) AddLinkedChannel(ctx context.Context, originChannelID, destinationChannelID int64) (*entities.LinkedChannelPair, error) {
	origin := strconv.FormatInt(originChannelID, 10)

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if existing := r.LinkedChannel(originChannelID); existing != nil {
		return nil, entities.NewValidationError("origin channel", origin,
			"is already linked to channel "+strconv.FormatInt(existing.DestinationChannelID, 10))
	}

	created, err := r.store.LinkedChannels().Create(ctx, originChannelID, destinationChannelID)
	if err != nil {
		return nil, storageError("create linked channel", err, "origin channel", origin)
	}

	stored := created.Clone()
	r.mu.Lock()
	r.linked[stored.OriginChannelID] = stored
	r.mu.Unlock()

	r.publish(ctx, events.LinkedChannelAddedEvent{
		OriginChannelID:      stored.OriginChannelID,
		DestinationChannelID: stored.DestinationChannelID,
	})
	return stored.Clone(), nil
}

// RemoveLinkedChannel deletes the pair of an origin channel and returns it, or
// nil if there was none
func (r *Registry) RemoveLinkedChannel(ctx context.Context, originChannelID int64) (*entities.LinkedChannelPair, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	existing := r.LinkedChannel(originChannelID)
	if err := r.store.LinkedChannels().Delete(ctx, originChannelID); err != nil {
		return nil, &entities.PersistenceError{Op: "delete linked channel", Err: err}
	}
	if existing == nil {
		return nil, nil
	}

	r.mu.Lock()
	delete(r.linked, originChannelID)
	r.mu.Unlock()

	r.publish(ctx, events.LinkedChannelRemovedEvent{
		OriginChannelID:      existing.OriginChannelID,
		DestinationChannelID: existing.DestinationChannelID,
	})
	return existing, nil
}
