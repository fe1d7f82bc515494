package entities

// GlobalServerID is the sentinel server id of blacklist rows that apply everywhere
const GlobalServerID int64 = 0

// DefaultBlacklistReason is stored when an admin gives no reason
const DefaultBlacklistReason = "No reason provided"

// EntityKind says what a blacklist row targets
type EntityKind int16

const (
	EntityKindUser   EntityKind = 0
	EntityKindServer EntityKind = 1
)

// String returns the lowercase entity kind name
func (k EntityKind) String() string {
	if k == EntityKindServer {
		return "server"
	}
	return "user"
}

// Blacklist suppresses an entity from a set of chat scopes, either within one
// guild or globally when ServerID is GlobalServerID.
type Blacklist struct {
	ID         int64      `db:"id"`
	ServerID   int64      `db:"server_id"`
	EntityID   int64      `db:"entity_id"`
	Scopes     ScopeSet   `db:"-"`
	EntityKind EntityKind `db:"blacklist_type"`
	Reason     *string    `db:"reason"` // Nullable
}

// BlacklistKey is the uniqueness key of a blacklist row
type BlacklistKey struct {
	ServerID int64
	EntityID int64
}

// Key returns the (server, entity) key of the row
func (b *Blacklist) Key() BlacklistKey {
	return BlacklistKey{ServerID: b.ServerID, EntityID: b.EntityID}
}

// IsGlobal reports whether the row applies across all guilds
func (b *Blacklist) IsGlobal() bool {
	return b.ServerID == GlobalServerID
}

// Blocks reports whether the row suppresses relays of the given scope
func (b *Blacklist) Blocks(chatType ChatType) bool {
	return b != nil && b.Scopes.Has(chatType)
}

// Clone returns a copy safe to hand out of the registry
func (b *Blacklist) Clone() *Blacklist {
	if b == nil {
		return nil
	}
	c := *b
	if b.Reason != nil {
		r := *b.Reason
		c.Reason = &r
	}
	return &c
}
