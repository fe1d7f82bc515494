package services

import (
	"context"

	"sincroni/domain/entities"
	"sincroni/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// DeliveryMethodMirror labels linked channel deliveries in metrics
const DeliveryMethodMirror = "mirror"

// MirrorService copies messages of an origin channel into its linked
// destination channel
type MirrorService struct {
	registry  interfaces.RegistryReader
	sanitizer interfaces.ContentSanitizer
	platform  interfaces.ChatPlatform
	metrics   interfaces.RelayMetrics
	config    RelayConfig
}

// NewMirrorService creates a mirror service. metrics may be nil.
func NewMirrorService(
	registry interfaces.RegistryReader,
	sanitizer interfaces.ContentSanitizer,
	platform interfaces.ChatPlatform,
	metrics interfaces.RelayMetrics,
	config RelayConfig,
) *MirrorService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if config.DefaultGuildIconURL == "" {
		config.DefaultGuildIconURL = DefaultGuildIconURL
	}
	return &MirrorService{
		registry:  registry,
		sanitizer: sanitizer,
		platform:  platform,
		metrics:   metrics,
		config:    config,
	}
}

// HandleMessage mirrors msg if it is eligible and its channel has a linked pair.
// It reports whether a copy was delivered.
func (s *MirrorService) HandleMessage(ctx context.Context, msg *entities.InboundMessage) bool {
	if !msg.IsRelayable() {
		return false
	}
	pair := s.registry.LinkedChannel(msg.ChannelID)
	if pair == nil {
		return false
	}
	return s.Mirror(ctx, msg, pair)
}

// Mirror posts the sanitized message into the pair's destination channel. A
// missing destination or a rejected send is logged and reported as false.
func (s *MirrorService) Mirror(ctx context.Context, msg *entities.InboundMessage, pair *entities.LinkedChannelPair) bool {
	logger := log.WithFields(log.Fields{
		"guild_id":               msg.GuildID,
		"message_id":             msg.ID,
		"origin_channel_id":      pair.OriginChannelID,
		"destination_channel_id": pair.DestinationChannelID,
	})

	ctx, cancel := s.config.deliveryContext(ctx)
	defer cancel()

	channel, err := s.platform.ResolveChannel(ctx, pair.DestinationChannelID)
	if err != nil {
		logger.WithError(err).Warn("Failed to resolve linked destination channel")
		s.metrics.RecordDelivery(DeliveryMethodMirror, DeliveryResultFailed)
		return false
	}
	if channel == nil {
		logger.Warn("Linked destination channel is missing, skipping mirror")
		s.metrics.RecordDelivery(DeliveryMethodMirror, DeliveryResultSkipped)
		return false
	}

	relayed := newRelayCopy(s.sanitizer, msg, s.config.DefaultGuildIconURL)
	if err := s.platform.SendChannelMessage(ctx, pair.DestinationChannelID, relayed.directPost(s.config.DefaultColor)); err != nil {
		logger.WithError(&entities.DeliveryError{ChannelID: pair.DestinationChannelID, Err: err}).Warn("Linked channel delivery failed")
		s.metrics.RecordDelivery(DeliveryMethodMirror, DeliveryResultFailed)
		return false
	}

	s.metrics.RecordDelivery(DeliveryMethodMirror, DeliveryResultOK)
	return true
}
