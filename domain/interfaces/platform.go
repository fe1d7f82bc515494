package interfaces

import (
	"context"

	"sincroni/domain/entities"
	"sincroni/domain/events"
)

// ChatPlatform is the outbound surface of the chat platform client
type ChatPlatform interface {
	// ResolveChannel returns the channel, or nil if it no longer exists
	ResolveChannel(ctx context.Context, channelID int64) (*entities.ChannelInfo, error)

	// SendChannelMessage posts a message directly into a channel
	SendChannelMessage(ctx context.Context, channelID int64, msg *entities.OutboundMessage) error

	// ExecuteWebhook posts through a webhook. threadID is 0 unless the target
	// channel is a thread of the webhook's channel.
	ExecuteWebhook(ctx context.Context, hook entities.WebhookHandle, threadID int64, msg *entities.OutboundMessage) error
}

// AuditSink receives the unredacted moderation copy of processed messages
type AuditSink interface {
	SendAudit(ctx context.Context, record *entities.AuditRecord) error
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

// RelayMetrics records relay outcomes
type RelayMetrics interface {
	RecordMessageRelayed(chatType string)
	RecordMessageBlocked(chatType string)
	RecordDelivery(method, result string)
	RecordAuditFailure()
}
