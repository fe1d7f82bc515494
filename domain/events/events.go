package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeGlobalChatLinked     EventType = "global_chat_linked"
	EventTypeGlobalChatUnlinked   EventType = "global_chat_unlinked"
	EventTypeBlacklistAdded       EventType = "blacklist_added"
	EventTypeBlacklistRemoved     EventType = "blacklist_removed"
	EventTypeLinkedChannelAdded   EventType = "linked_channel_added"
	EventTypeLinkedChannelRemoved EventType = "linked_channel_removed"
	EventTypeEmbedColorSet        EventType = "embed_color_set"
	EventTypeEmbedColorCleared    EventType = "embed_color_cleared"
	EventTypeMessageRelayed       EventType = "message_relayed"
	EventTypeMessageBlocked       EventType = "message_blocked"
)

// AllEventTypes lists every event type the bus may carry
var AllEventTypes = []EventType{
	EventTypeGlobalChatLinked,
	EventTypeGlobalChatUnlinked,
	EventTypeBlacklistAdded,
	EventTypeBlacklistRemoved,
	EventTypeLinkedChannelAdded,
	EventTypeLinkedChannelRemoved,
	EventTypeEmbedColorSet,
	EventTypeEmbedColorCleared,
	EventTypeMessageRelayed,
	EventTypeMessageBlocked,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GlobalChatLinkedEvent is emitted after a channel joins a chat scope
type GlobalChatLinkedEvent struct {
	ServerID   int64  `json:"server_id"`
	ChannelID  int64  `json:"channel_id"`
	ChatType   string `json:"chat_type"`
	HasWebhook bool   `json:"has_webhook"`
}

func (e GlobalChatLinkedEvent) Type() EventType { return EventTypeGlobalChatLinked }

// GlobalChatUnlinkedEvent is emitted after a channel leaves its chat scope
type GlobalChatUnlinkedEvent struct {
	ServerID  int64  `json:"server_id"`
	ChannelID int64  `json:"channel_id"`
	ChatType  string `json:"chat_type"`
}

func (e GlobalChatUnlinkedEvent) Type() EventType { return EventTypeGlobalChatUnlinked }

// BlacklistAddedEvent is emitted after a blacklist row is stored
type BlacklistAddedEvent struct {
	ServerID   int64  `json:"server_id"`
	EntityID   int64  `json:"entity_id"`
	EntityKind string `json:"entity_kind"`
	Scopes     string `json:"scopes"`
	Reason     string `json:"reason,omitempty"`
}

func (e BlacklistAddedEvent) Type() EventType { return EventTypeBlacklistAdded }

// BlacklistRemovedEvent is emitted after a blacklist row is deleted
type BlacklistRemovedEvent struct {
	ServerID int64 `json:"server_id"`
	EntityID int64 `json:"entity_id"`
}

func (e BlacklistRemovedEvent) Type() EventType { return EventTypeBlacklistRemoved }

// LinkedChannelAddedEvent is emitted after a mirror pair is stored
type LinkedChannelAddedEvent struct {
	OriginChannelID      int64 `json:"origin_channel_id"`
	DestinationChannelID int64 `json:"destination_channel_id"`
}

func (e LinkedChannelAddedEvent) Type() EventType { return EventTypeLinkedChannelAdded }

// LinkedChannelRemovedEvent is emitted after a mirror pair is deleted
type LinkedChannelRemovedEvent struct {
	OriginChannelID      int64 `json:"origin_channel_id"`
	DestinationChannelID int64 `json:"destination_channel_id"`
}

func (e LinkedChannelRemovedEvent) Type() EventType { return EventTypeLinkedChannelRemoved }

// EmbedColorSetEvent is emitted after a color override is stored
type EmbedColorSetEvent struct {
	ServerID   int64  `json:"server_id"`
	ChatType   string `json:"chat_type"`
	ColorValue int    `json:"color_value"`
}

func (e EmbedColorSetEvent) Type() EventType { return EventTypeEmbedColorSet }

// EmbedColorClearedEvent is emitted after a color override is deleted
type EmbedColorClearedEvent struct {
	ServerID int64  `json:"server_id"`
	ChatType string `json:"chat_type"`
}

func (e EmbedColorClearedEvent) Type() EventType { return EventTypeEmbedColorCleared }

// MessageRelayedEvent summarises one completed fan-out
type MessageRelayedEvent struct {
	RelayID     string `json:"relay_id"`
	GuildID     int64  `json:"guild_id"`
	ChannelID   int64  `json:"channel_id"`
	AuthorID    int64  `json:"author_id"`
	MessageID   int64  `json:"message_id"`
	ChatType    string `json:"chat_type"`
	Delivered   int    `json:"delivered"`
	Skipped     int    `json:"skipped"`
	Failed      int    `json:"failed"`
	AuditFailed bool   `json:"audit_failed"`
}

func (e MessageRelayedEvent) Type() EventType { return EventTypeMessageRelayed }

// MessageBlockedEvent is emitted when origin gating diverts a message
type MessageBlockedEvent struct {
	RelayID   string `json:"relay_id"`
	GuildID   int64  `json:"guild_id"`
	ChannelID int64  `json:"channel_id"`
	AuthorID  int64  `json:"author_id"`
	MessageID int64  `json:"message_id"`
	ChatType  string `json:"chat_type"`
	Rule      string `json:"rule"`
}

func (e MessageBlockedEvent) Type() EventType { return EventTypeMessageBlocked }

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"event_type":    eventType,
		"handler_count": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Publish dispatches an event to all registered handlers asynchronously.
// Handler panics are recovered and logged.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"event_type":    event.Type(),
						"handler_index": handlerIndex,
						"panic":         r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}
