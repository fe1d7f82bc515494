package entities

// MaxColorValue is the largest 24-bit RGB value
const MaxColorValue = 0xFFFFFF

// EmbedColorOverride replaces the relay embed color for copies delivered into
// one guild's chat of the given type.
type EmbedColorOverride struct {
	ServerID   int64    `db:"server_id"`
	ChatType   ChatType `db:"chat_type"`
	ColorValue int      `db:"custom_color"`
}

// Key returns the (server, chat type) key of the override
func (e *EmbedColorOverride) Key() ServerScopeKey {
	return ServerScopeKey{ServerID: e.ServerID, ChatType: e.ChatType}
}

// Clone returns a copy safe to hand out of the registry
func (e *EmbedColorOverride) Clone() *EmbedColorOverride {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
