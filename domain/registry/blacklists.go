package registry

import (
	"context"
	"sort"
	"strconv"

	"sincroni/domain/entities"
	"sincroni/domain/events"
)

// Blacklist returns the row for (server, entity), or nil
func (r *Registry) Blacklist(serverID, entityID int64) *entities.Blacklist {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.blacklists[entities.BlacklistKey{ServerID: serverID, EntityID: entityID}].Clone()
}

// Blocks reports whether serverID's row for entityID suppresses chatType.
// It is the hot-path variant of Blacklist and allocates nothing.
func (r *Registry) Blocks(serverID, entityID int64, chatType entities.ChatType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.blacklists[entities.BlacklistKey{ServerID: serverID, EntityID: entityID}].Blocks(chatType)
}

// Blacklists returns every row ordered by server then entity
func (r *Registry) Blacklists() []*entities.Blacklist {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entities.Blacklist, 0, len(r.blacklists))
	for _, b := range r.blacklists {
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ServerID != out[j].ServerID {
			return out[i].ServerID < out[j].ServerID
		}
		return out[i].EntityID < out[j].EntityID
	})
	return out
}

// BlacklistsByServer returns the rows created by one guild, or the global rows
// when serverID is entities.GlobalServerID
func (r *Registry) BlacklistsByServer(serverID int64) []*entities.Blacklist {
	var out []*entities.Blacklist
	for _, b := range r.Blacklists() {
		if b.ServerID == serverID {
			out = append(out, b)
		}
	}
	return out
}

// AddBlacklist stores a new blacklist row. The (server, entity) pair must not
// already have a row and at least one scope must be set.
func (r *Registry) AddBlacklist(ctx context.Context, blacklist *entities.Blacklist) (*entities.Blacklist, error) {
	entity := strconv.FormatInt(blacklist.EntityID, 10)
	if blacklist.EntityID == 0 {
		return nil, entities.NewValidationError("entity", entity, "must be a user or server id")
	}
	if blacklist.Scopes.IsEmpty() {
		return nil, entities.NewValidationError("scopes", "", "pick at least one chat to blacklist from")
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if r.Blacklist(blacklist.ServerID, blacklist.EntityID) != nil {
		return nil, entities.NewValidationError("entity", entity, "is already blacklisted")
	}

	created, err := r.store.Blacklists().Create(ctx, blacklist.Clone())
	if err != nil {
		return nil, storageError("create blacklist", err, "entity", entity)
	}

	stored := created.Clone()
	r.mu.Lock()
	r.blacklists[stored.Key()] = stored
	r.mu.Unlock()

	event := events.BlacklistAddedEvent{
		ServerID:   stored.ServerID,
		EntityID:   stored.EntityID,
		EntityKind: stored.EntityKind.String(),
		Scopes:     stored.Scopes.String(),
	}
	if stored.Reason != nil {
		event.Reason = *stored.Reason
	}
	r.publish(ctx, event)
	return stored.Clone(), nil
}

// RemoveBlacklist deletes the row for (server, entity) and returns it, or nil
// if there was none
func (r *Registry) RemoveBlacklist(ctx context.Context, serverID, entityID int64) (*entities.Blacklist, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	existing := r.Blacklist(serverID, entityID)
	if err := r.store.Blacklists().Delete(ctx, serverID, entityID); err != nil {
		return nil, &entities.PersistenceError{Op: "delete blacklist", Err: err}
	}
	if existing == nil {
		return nil, nil
	}

	r.mu.Lock()
	delete(r.blacklists, existing.Key())
	r.mu.Unlock()

	r.publish(ctx, events.BlacklistRemovedEvent{ServerID: serverID, EntityID: entityID})
	return existing, nil
}
