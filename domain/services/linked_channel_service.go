package services

import (
	"context"
	"strconv"

	"sincroni/domain/entities"
	"sincroni/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// LinkedChannelService manages 1:1 channel mirrors
type LinkedChannelService struct {
	registry interfaces.Registry
}

// NewLinkedChannelService creates a new LinkedChannelService
func NewLinkedChannelService(registry interfaces.Registry) *LinkedChannelService {
	return &LinkedChannelService{registry: registry}
}

// Link mirrors origin into destination
func (s *LinkedChannelService) Link(ctx context.Context, originChannelID, destinationChannelID int64) (*entities.LinkedChannelPair, error) {
	if originChannelID == destinationChannelID {
		return nil, entities.NewValidationError("destination channel", strconv.FormatInt(destinationChannelID, 10), "cannot mirror a channel into itself")
	}

	pair, err := s.registry.AddLinkedChannel(ctx, originChannelID, destinationChannelID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"origin_channel_id":      originChannelID,
		"destination_channel_id": destinationChannelID,
	}).Info("Linked channels")
	return pair, nil
}

// Unlink stops mirroring origin
func (s *LinkedChannelService) Unlink(ctx context.Context, originChannelID int64) (*entities.LinkedChannelPair, error) {
	origin := strconv.FormatInt(originChannelID, 10)
	if s.registry.LinkedChannel(originChannelID) == nil {
		return nil, entities.NewValidationError("origin channel", origin, "is not linked")
	}

	removed, err := s.registry.RemoveLinkedChannel(ctx, originChannelID)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, entities.NewValidationError("origin channel", origin, "is not linked")
	}

	log.WithFields(log.Fields{
		"origin_channel_id":      removed.OriginChannelID,
		"destination_channel_id": removed.DestinationChannelID,
	}).Info("Unlinked channels")
	return removed, nil
}
