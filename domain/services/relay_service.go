package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"sincroni/domain/entities"
	"sincroni/domain/events"
	"sincroni/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Block rules reported when origin gating diverts a message
const (
	BlockRuleGlobalUser   = "global_user"
	BlockRuleGlobalServer = "global_server"
	BlockRuleLocalUser    = "local_user"
)

// Delivery results used for metrics
const (
	DeliveryResultOK      = "ok"
	DeliveryResultFailed  = "failed"
	DeliveryResultSkipped = "skipped"
)

// RelayConfig holds the tunables of the relay engine
type RelayConfig struct {
	DefaultColor        int
	DefaultGuildIconURL string
	// MaxConcurrentDeliveries bounds the per-message fan-out. Zero or less
	// delivers to one destination at a time.
	MaxConcurrentDeliveries int
	// DirectPostFallback retries a webhook delivery as a direct post when the
	// webhook no longer exists. Other webhook errors are not retried since the
	// post may already have gone through.
	DirectPostFallback bool
	// DeliveryTimeout bounds each platform call of one destination. Deliveries
	// are detached from the caller's cancellation. Zero means no bound.
	DeliveryTimeout time.Duration
}

// DefaultRelayConfig returns the configuration used when none is given
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		DefaultColor:            DefaultEmbedColor,
		DefaultGuildIconURL:     DefaultGuildIconURL,
		MaxConcurrentDeliveries: 8,
		DirectPostFallback:      true,
		DeliveryTimeout:         15 * time.Second,
	}
}

// deliveryContext derives the context of one delivery. It survives
// cancellation of parent so a slow sibling never starves queued deliveries.
func (c RelayConfig) deliveryContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	if c.DeliveryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.DeliveryTimeout)
}

// RelayResult describes what happened to one relayed message
type RelayResult struct {
	RelayID     string
	ChatType    entities.ChatType
	Blocked     bool
	BlockRule   string
	AuditSent   bool
	AuditFailed bool
	Delivered   []int64 // Destination channel ids, ascending
	Skipped     []int64
	Failed      []int64
}

// RelayService fans one inbound message in a global chat out to every other
// channel of the same chat type
type RelayService struct {
	registry  interfaces.RegistryReader
	resolver  *DestinationResolver
	sanitizer interfaces.ContentSanitizer
	platform  interfaces.ChatPlatform
	audit     interfaces.AuditSink
	publisher interfaces.EventPublisher
	metrics   interfaces.RelayMetrics
	config    RelayConfig
}

// NewRelayService creates a relay service. audit, publisher and metrics may be nil.
func NewRelayService(
	registry interfaces.RegistryReader,
	sanitizer interfaces.ContentSanitizer,
	platform interfaces.ChatPlatform,
	audit interfaces.AuditSink,
	publisher interfaces.EventPublisher,
	metrics interfaces.RelayMetrics,
	config RelayConfig,
) *RelayService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if config.DefaultGuildIconURL == "" {
		config.DefaultGuildIconURL = DefaultGuildIconURL
	}
	return &RelayService{
		registry:  registry,
		resolver:  NewDestinationResolver(registry),
		sanitizer: sanitizer,
		platform:  platform,
		audit:     audit,
		publisher: publisher,
		metrics:   metrics,
		config:    config,
	}
}

// HandleMessage relays msg if it is eligible and was posted in a global chat.
// It returns nil when the message is not relayed at all.
func (s *RelayService) HandleMessage(ctx context.Context, msg *entities.InboundMessage) *RelayResult {
	if !msg.IsRelayable() {
		return nil
	}
	origin := s.registry.GlobalChat(msg.ChannelID)
	if origin == nil {
		return nil
	}
	return s.Relay(ctx, msg, origin)
}

// Relay runs the gate, audit mirror, transform and fan-out steps for one
// message. Delivery failures are logged and counted, never returned.
func (s *RelayService) Relay(ctx context.Context, msg *entities.InboundMessage, origin *entities.GlobalChatLink) *RelayResult {
	result := &RelayResult{
		RelayID:  uuid.NewString(),
		ChatType: origin.ChatType,
	}
	logger := log.WithFields(log.Fields{
		"relay_id":   result.RelayID,
		"guild_id":   msg.GuildID,
		"channel_id": msg.ChannelID,
		"author_id":  msg.AuthorID,
		"message_id": msg.ID,
		"chat_type":  origin.ChatType.String(),
	})

	if rule := s.gate(msg, origin.ChatType); rule != "" {
		result.Blocked = true
		result.BlockRule = rule
		result.AuditSent, result.AuditFailed = s.sendAudit(ctx, logger, msg, origin.ChatType, true)

		logger.WithField("rule", rule).Info("Message blocked by blacklist, sent to moderation only")
		s.metrics.RecordMessageBlocked(origin.ChatType.String())
		s.publish(ctx, events.MessageBlockedEvent{
			RelayID:   result.RelayID,
			GuildID:   msg.GuildID,
			ChannelID: msg.ChannelID,
			AuthorID:  msg.AuthorID,
			MessageID: msg.ID,
			ChatType:  origin.ChatType.String(),
			Rule:      rule,
		})
		return result
	}

	result.AuditSent, result.AuditFailed = s.sendAudit(ctx, logger, msg, origin.ChatType, false)

	relayed := newRelayCopy(s.sanitizer, msg, s.config.DefaultGuildIconURL)
	destinations := s.resolver.Resolve(origin)
	s.fanOut(ctx, logger, msg, origin.ChatType, relayed, destinations, result)

	logger.WithFields(log.Fields{
		"destinations": len(destinations),
		"delivered":    len(result.Delivered),
		"skipped":      len(result.Skipped),
		"failed":       len(result.Failed),
	}).Debug("Relay complete")

	s.metrics.RecordMessageRelayed(origin.ChatType.String())
	s.publish(ctx, events.MessageRelayedEvent{
		RelayID:     result.RelayID,
		GuildID:     msg.GuildID,
		ChannelID:   msg.ChannelID,
		AuthorID:    msg.AuthorID,
		MessageID:   msg.ID,
		ChatType:    origin.ChatType.String(),
		Delivered:   len(result.Delivered),
		Skipped:     len(result.Skipped),
		Failed:      len(result.Failed),
		AuditFailed: result.AuditFailed,
	})
	return result
}

// gate returns the blacklist rule that diverts msg, or "" if it may be relayed
func (s *RelayService) gate(msg *entities.InboundMessage, chatType entities.ChatType) string {
	switch {
	case s.registry.Blocks(entities.GlobalServerID, msg.AuthorID, chatType):
		return BlockRuleGlobalUser
	case s.registry.Blocks(entities.GlobalServerID, msg.GuildID, chatType):
		return BlockRuleGlobalServer
	case s.registry.Blocks(msg.GuildID, msg.AuthorID, chatType):
		return BlockRuleLocalUser
	default:
		return ""
	}
}

func (s *RelayService) sendAudit(ctx context.Context, logger *log.Entry, msg *entities.InboundMessage, chatType entities.ChatType, blocked bool) (sent, failed bool) {
	if s.audit == nil {
		return false, false
	}
	ctx, cancel := s.config.deliveryContext(ctx)
	defer cancel()
	if err := s.audit.SendAudit(ctx, entities.NewAuditRecord(msg, chatType, blocked)); err != nil {
		logger.WithError(err).Warn("Failed to send moderation copy")
		s.metrics.RecordAuditFailure()
		return false, true
	}
	return true, false
}

type deliveryOutcome int

const (
	outcomeDelivered deliveryOutcome = iota
	outcomeSkipped
	outcomeFailed
)

func (s *RelayService) fanOut(
	ctx context.Context,
	logger *log.Entry,
	msg *entities.InboundMessage,
	chatType entities.ChatType,
	relayed *relayCopy,
	destinations []*entities.GlobalChatLink,
	result *RelayResult,
) {
	var mu sync.Mutex
	record := func(channelID int64, outcome deliveryOutcome) {
		mu.Lock()
		defer mu.Unlock()
		switch outcome {
		case outcomeDelivered:
			result.Delivered = append(result.Delivered, channelID)
		case outcomeSkipped:
			result.Skipped = append(result.Skipped, channelID)
		default:
			result.Failed = append(result.Failed, channelID)
		}
	}

	limit := s.config.MaxConcurrentDeliveries
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for _, dest := range destinations {
		g.Go(func() error {
			record(dest.ChannelID, s.deliver(ctx, logger, msg, chatType, relayed, dest))
			return nil
		})
	}
	_ = g.Wait()

	for _, ids := range [][]int64{result.Delivered, result.Skipped, result.Failed} {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
}

// deliver sends one copy. Each call is isolated: it reports its own outcome and
// never affects sibling deliveries.
func (s *RelayService) deliver(
	ctx context.Context,
	logger *log.Entry,
	msg *entities.InboundMessage,
	chatType entities.ChatType,
	relayed *relayCopy,
	dest *entities.GlobalChatLink,
) deliveryOutcome {
	method := dest.Delivery()
	destLogger := logger.WithFields(log.Fields{
		"destination_guild_id":   dest.ServerID,
		"destination_channel_id": dest.ChannelID,
		"delivery":               method.Kind.String(),
	})

	if s.registry.Blocks(dest.ServerID, msg.AuthorID, chatType) || s.registry.Blocks(dest.ServerID, msg.GuildID, chatType) {
		destLogger.Debug("Destination guild blacklisted the author or origin guild, skipping")
		s.metrics.RecordDelivery(method.Kind.String(), DeliveryResultSkipped)
		return outcomeSkipped
	}

	ctx, cancel := s.config.deliveryContext(ctx)
	defer cancel()

	channel, err := s.platform.ResolveChannel(ctx, dest.ChannelID)
	if err != nil {
		destLogger.WithError(err).Warn("Failed to resolve destination channel")
		s.metrics.RecordDelivery(method.Kind.String(), DeliveryResultFailed)
		return outcomeFailed
	}
	if channel == nil {
		destLogger.Info("Destination channel no longer exists, skipping")
		s.metrics.RecordDelivery(method.Kind.String(), DeliveryResultSkipped)
		return outcomeSkipped
	}

	color := s.registry.EmbedColorOr(dest.ServerID, chatType, s.config.DefaultColor)

	if method.Kind == entities.DeliveryWebhookPost {
		var threadID int64
		if channel.IsThread {
			threadID = channel.ID
		}
		err := s.platform.ExecuteWebhook(ctx, *method.Webhook, threadID, relayed.webhookPost(color))
		if err == nil {
			s.metrics.RecordDelivery(method.Kind.String(), DeliveryResultOK)
			return outcomeDelivered
		}

		deliveryErr := &entities.DeliveryError{ChannelID: dest.ChannelID, WebhookID: method.Webhook.ID, Err: err}
		destLogger.WithError(deliveryErr).WithField("webhook_id", method.Webhook.ID).Warn("Webhook delivery failed")
		s.metrics.RecordDelivery(method.Kind.String(), DeliveryResultFailed)
		if !s.config.DirectPostFallback || !errors.Is(err, entities.ErrWebhookGone) {
			return outcomeFailed
		}
		destLogger.Info("Webhook is gone, retrying delivery as a direct post")
	}

	if err := s.platform.SendChannelMessage(ctx, dest.ChannelID, relayed.directPost(color)); err != nil {
		deliveryErr := &entities.DeliveryError{ChannelID: dest.ChannelID, Err: err}
		destLogger.WithError(deliveryErr).Warn("Direct delivery failed")
		s.metrics.RecordDelivery(entities.DeliveryDirectPost.String(), DeliveryResultFailed)
		return outcomeFailed
	}
	s.metrics.RecordDelivery(entities.DeliveryDirectPost.String(), DeliveryResultOK)
	return outcomeDelivered
}

func (s *RelayService) publish(ctx context.Context, event events.Event) {
	if s.publisher != nil {
		s.publisher.Publish(ctx, event)
	}
}
