package entities

// DeliveryKind selects how a relay copy reaches a destination channel
type DeliveryKind int

const (
	DeliveryDirectPost DeliveryKind = iota
	DeliveryWebhookPost
)

// String returns the metric/log label of the delivery kind
func (k DeliveryKind) String() string {
	if k == DeliveryWebhookPost {
		return "webhook"
	}
	return "direct"
}

// DeliveryMethod describes how a destination receives relay copies. It is
// decided once when the link is constructed.
type DeliveryMethod struct {
	Kind    DeliveryKind
	Webhook *WebhookHandle // Set only for DeliveryWebhookPost
}

// GlobalChatLink is a channel opted into a chat scope
type GlobalChatLink struct {
	ServerID   int64    `db:"server_id"`
	ChannelID  int64    `db:"channel_id"`
	ChatType   ChatType `db:"chat_type"`
	WebhookURL *string  `db:"webhook_url"` // Nullable

	delivery DeliveryMethod
}

// NewGlobalChatLink builds a link and resolves its delivery method from the
// webhook URL. A URL that fails to parse leaves the link on direct posting.
func NewGlobalChatLink(serverID, channelID int64, chatType ChatType, webhookURL *string) *GlobalChatLink {
	link := &GlobalChatLink{
		ServerID:   serverID,
		ChannelID:  channelID,
		ChatType:   chatType,
		WebhookURL: webhookURL,
	}
	link.ResolveDelivery()
	return link
}

// ResolveDelivery (re)computes the delivery method from WebhookURL and reports
// whether a configured webhook URL was rejected.
func (l *GlobalChatLink) ResolveDelivery() (rejected bool) {
	l.delivery = DeliveryMethod{Kind: DeliveryDirectPost}
	if l.WebhookURL == nil || *l.WebhookURL == "" {
		return false
	}
	handle, err := ParseWebhookURL(*l.WebhookURL)
	if err != nil {
		return true
	}
	l.delivery = DeliveryMethod{Kind: DeliveryWebhookPost, Webhook: handle}
	return false
}

// Delivery returns the delivery method chosen at construction
func (l *GlobalChatLink) Delivery() DeliveryMethod {
	return l.delivery
}

// HasWebhook reports whether copies go through a webhook
func (l *GlobalChatLink) HasWebhook() bool {
	return l.delivery.Kind == DeliveryWebhookPost
}

// Clone returns a copy safe to hand out of the registry
func (l *GlobalChatLink) Clone() *GlobalChatLink {
	if l == nil {
		return nil
	}
	c := *l
	if l.WebhookURL != nil {
		url := *l.WebhookURL
		c.WebhookURL = &url
	}
	if l.delivery.Webhook != nil {
		hook := *l.delivery.Webhook
		c.delivery.Webhook = &hook
	}
	return &c
}

// ServerScopeKey identifies the (server, chat type) pair a guild may link once
type ServerScopeKey struct {
	ServerID int64
	ChatType ChatType
}

// ScopeKey returns the (server, chat type) uniqueness key of the link
func (l *GlobalChatLink) ScopeKey() ServerScopeKey {
	return ServerScopeKey{ServerID: l.ServerID, ChatType: l.ChatType}
}
