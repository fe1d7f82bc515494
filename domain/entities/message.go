package entities

import "time"

// MessageKind classifies inbound messages; only Default and Reply are relayed
type MessageKind int

const (
	MessageKindDefault MessageKind = iota
	MessageKindReply
	MessageKindOther
)

// InboundMessage is a platform message reduced to what the relay needs
type InboundMessage struct {
	ID              int64
	GuildID         int64
	ChannelID       int64
	AuthorID        int64
	AuthorName      string
	AuthorAvatarURL string
	AuthorIsBot     bool
	GuildName       string
	GuildIconURL    string
	Content         string
	Kind            MessageKind
	CreatedAt       time.Time
}

// IsRelayable reports whether the message may be relayed or mirrored
func (m *InboundMessage) IsRelayable() bool {
	if m == nil || m.GuildID == 0 || m.Content == "" || m.AuthorIsBot {
		return false
	}
	return m.Kind == MessageKindDefault || m.Kind == MessageKindReply
}

// ChannelInfo is the resolved view of a destination channel
type ChannelInfo struct {
	ID       int64
	GuildID  int64
	ParentID int64
	IsThread bool
}

// EmbedField is a named field of an outbound embed
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is the platform-neutral rich message body of a relay copy
type Embed struct {
	Description   string
	Color         int
	AuthorName    string
	AuthorIconURL string
	FooterText    string
	FooterIconURL string
	ThumbnailURL  string
	Timestamp     time.Time
	Fields        []EmbedField
}

// OutboundMessage is one copy handed to the platform for delivery. Username and
// AvatarURL are only honoured by webhook posts.
type OutboundMessage struct {
	Embed     Embed
	Username  string
	AvatarURL string
}

// AuditRecord is the unredacted copy sent to the moderation endpoint
type AuditRecord struct {
	Blocked         bool
	ChatType        ChatType
	GuildID         int64
	ChannelID       int64
	AuthorID        int64
	MessageID       int64
	AuthorName      string
	AuthorAvatarURL string
	GuildName       string
	GuildIconURL    string
	Content         string
	CreatedAt       time.Time
}

// NewAuditRecord copies the identifying metadata of a message
func NewAuditRecord(msg *InboundMessage, chatType ChatType, blocked bool) *AuditRecord {
	return &AuditRecord{
		Blocked:         blocked,
		ChatType:        chatType,
		GuildID:         msg.GuildID,
		ChannelID:       msg.ChannelID,
		AuthorID:        msg.AuthorID,
		MessageID:       msg.ID,
		AuthorName:      msg.AuthorName,
		AuthorAvatarURL: msg.AuthorAvatarURL,
		GuildName:       msg.GuildName,
		GuildIconURL:    msg.GuildIconURL,
		Content:         msg.Content,
		CreatedAt:       msg.CreatedAt,
	}
}
