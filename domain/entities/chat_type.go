package entities

import (
	"fmt"
	"sort"
	"strings"
)

// ChatType identifies the broadcast scope a global chat link belongs to.
// Values match the persisted SMALLINT column.
type ChatType int16

const (
	ChatTypePublic    ChatType = 0
	ChatTypeDeveloper ChatType = 1
	ChatTypePrivate   ChatType = 2
	ChatTypeRepeat    ChatType = 3
)

// AllChatTypes lists every known chat type in persisted order
var AllChatTypes = []ChatType{ChatTypePublic, ChatTypeDeveloper, ChatTypePrivate, ChatTypeRepeat}

// String returns the lowercase name used by commands and logs
func (c ChatType) String() string {
	switch c {
	case ChatTypePublic:
		return "public"
	case ChatTypeDeveloper:
		return "developer"
	case ChatTypePrivate:
		return "private"
	case ChatTypeRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("unknown(%d)", int16(c))
	}
}

// IsValid reports whether the value is one of the known chat types
func (c ChatType) IsValid() bool {
	return c >= ChatTypePublic && c <= ChatTypeRepeat
}

// IsBroadcast reports whether links of this type take part in global fan-out.
// Private denotes point-to-point links and never broadcasts.
func (c ChatType) IsBroadcast() bool {
	return c.IsValid() && c != ChatTypePrivate
}

// ParseChatType converts a command option value into a ChatType
func ParseChatType(s string) (ChatType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public", "pub":
		return ChatTypePublic, nil
	case "developer", "dev":
		return ChatTypeDeveloper, nil
	case "private":
		return ChatTypePrivate, nil
	case "repeat":
		return ChatTypeRepeat, nil
	default:
		return 0, fmt.Errorf("unknown chat type %q", s)
	}
}

// ScopeSet is a set of chat types, used by blacklists to record which scopes an
// entity is suppressed from.
type ScopeSet uint8

// NewScopeSet builds a set from the given chat types
func NewScopeSet(types ...ChatType) ScopeSet {
	var s ScopeSet
	for _, t := range types {
		s = s.With(t)
	}
	return s
}

// With returns a copy of the set including t
func (s ScopeSet) With(t ChatType) ScopeSet {
	if !t.IsValid() {
		return s
	}
	return s | 1<<uint(t)
}

// Without returns a copy of the set excluding t
func (s ScopeSet) Without(t ChatType) ScopeSet {
	if !t.IsValid() {
		return s
	}
	return s &^ (1 << uint(t))
}

// Has reports whether t is a member of the set
func (s ScopeSet) Has(t ChatType) bool {
	return t.IsValid() && s&(1<<uint(t)) != 0
}

// IsEmpty reports whether the set has no members
func (s ScopeSet) IsEmpty() bool {
	return s == 0
}

// Types returns the members in ascending order
func (s ScopeSet) Types() []ChatType {
	var types []ChatType
	for _, t := range AllChatTypes {
		if s.Has(t) {
			types = append(types, t)
		}
	}
	return types
}

// String renders the set as a comma separated list, e.g. "public,repeat"
func (s ScopeSet) String() string {
	names := make([]string, 0, 4)
	for _, t := range s.Types() {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
