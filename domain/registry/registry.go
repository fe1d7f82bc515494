// Package registry holds the in-memory index of relay routing and moderation
// state, backed by persistent storage.
//
// Readers never touch storage. Writers are serialised; each mutation writes to
// storage first and only updates the index once the write succeeded.
package registry

import (
	"context"
	"errors"
	"sort"
	"sync"

	"sincroni/domain/entities"
	"sincroni/domain/events"
	"sincroni/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Registry indexes global chat links, blacklists, linked channel pairs and
// embed color overrides.
type Registry struct {
	store     interfaces.RegistryStore
	publisher interfaces.EventPublisher

	// writeMu serialises mutations so that the storage write and the index
	// update of one mutation are never interleaved with another.
	writeMu sync.Mutex
	mu      sync.RWMutex

	globalChats  map[int64]*entities.GlobalChatLink
	chatsByScope map[entities.ServerScopeKey]int64
	chatsByType  map[entities.ChatType]map[int64]struct{}
	blacklists   map[entities.BlacklistKey]*entities.Blacklist
	linked       map[int64]*entities.LinkedChannelPair
	colors       map[entities.ServerScopeKey]*entities.EmbedColorOverride
}

// New creates an empty registry. publisher may be nil.
func New(store interfaces.RegistryStore, publisher interfaces.EventPublisher) *Registry {
	r := &Registry{
		store:     store,
		publisher: publisher,
	}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.globalChats = make(map[int64]*entities.GlobalChatLink)
	r.chatsByScope = make(map[entities.ServerScopeKey]int64)
	r.chatsByType = make(map[entities.ChatType]map[int64]struct{})
	r.blacklists = make(map[entities.BlacklistKey]*entities.Blacklist)
	r.linked = make(map[int64]*entities.LinkedChannelPair)
	r.colors = make(map[entities.ServerScopeKey]*entities.EmbedColorOverride)
}

// Hydrate replaces the index with the current contents of storage
func (r *Registry) Hydrate(ctx context.Context) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	snapshot, err := r.store.LoadSnapshot(ctx)
	if err != nil {
		return &entities.PersistenceError{Op: "load registry", Err: err}
	}

	r.mu.Lock()
	r.reset()
	for _, link := range snapshot.GlobalChats {
		r.indexGlobalChat(link)
	}
	for _, b := range snapshot.Blacklists {
		r.blacklists[b.Key()] = b.Clone()
	}
	for _, p := range snapshot.LinkedChannels {
		r.linked[p.OriginChannelID] = p.Clone()
	}
	for _, c := range snapshot.EmbedColors {
		r.colors[c.Key()] = c.Clone()
	}
	counts := log.Fields{
		"global_chats":    len(r.globalChats),
		"blacklists":      len(r.blacklists),
		"linked_channels": len(r.linked),
		"embed_colors":    len(r.colors),
	}
	r.mu.Unlock()

	log.WithFields(counts).Info("Registry hydrated")
	return nil
}

func (r *Registry) publish(ctx context.Context, event events.Event) {
	if r.publisher == nil {
		return
	}
	r.publisher.Publish(ctx, event)
}

// storageError converts a repository error into the error reported to the
// caller of a mutation
func storageError(op string, err error, field, value string) error {
	if errors.Is(err, entities.ErrDuplicate) {
		return entities.NewValidationError(field, value, "already exists")
	}
	return &entities.PersistenceError{Op: op, Err: err}
}

func sortedKeys(set map[int64]struct{}) []int64 {
	keys := make([]int64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
