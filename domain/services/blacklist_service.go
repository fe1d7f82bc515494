package services

import (
	"context"
	"strconv"
	"strings"

	"sincroni/domain/entities"
	"sincroni/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// BlacklistParams describes a blacklist entry to add
type BlacklistParams struct {
	ServerID   int64 // entities.GlobalServerID for a global entry
	EntityID   int64
	EntityKind entities.EntityKind
	Scopes     entities.ScopeSet
	Reason     string
}

// BlacklistService manages per-guild and global blacklist entries
type BlacklistService struct {
	registry interfaces.Registry
}

// NewBlacklistService creates a new BlacklistService
func NewBlacklistService(registry interfaces.Registry) *BlacklistService {
	return &BlacklistService{registry: registry}
}

// Add stores a blacklist entry. A guild cannot blacklist itself, and the
// (server, entity) pair must not already have an entry.
func (s *BlacklistService) Add(ctx context.Context, params BlacklistParams) (*entities.Blacklist, error) {
	entity := strconv.FormatInt(params.EntityID, 10)
	if params.EntityID <= 0 {
		return nil, entities.NewValidationError("entity", entity, "pick a user or a server to blacklist")
	}
	if params.EntityKind == entities.EntityKindServer && params.EntityID == params.ServerID {
		return nil, entities.NewValidationError("entity", entity, "a server cannot blacklist itself")
	}
	// Private links never broadcast, so there is nothing to block there.
	params.Scopes = params.Scopes.Without(entities.ChatTypePrivate)
	if params.Scopes.IsEmpty() {
		return nil, entities.NewValidationError("scopes", "", "pick at least one chat to blacklist from")
	}
	if s.registry.Blacklist(params.ServerID, params.EntityID) != nil {
		return nil, entities.NewValidationError("entity", entity, "is already blacklisted")
	}

	reason := strings.TrimSpace(params.Reason)
	if reason == "" {
		reason = entities.DefaultBlacklistReason
	}

	created, err := s.registry.AddBlacklist(ctx, &entities.Blacklist{
		ServerID:   params.ServerID,
		EntityID:   params.EntityID,
		EntityKind: params.EntityKind,
		Scopes:     params.Scopes,
		Reason:     &reason,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guild_id":    params.ServerID,
		"entity_id":   params.EntityID,
		"entity_kind": params.EntityKind.String(),
		"scopes":      params.Scopes.String(),
	}).Info("Added blacklist entry")
	return created, nil
}

// Remove deletes the blacklist entry for (server, entity)
func (s *BlacklistService) Remove(ctx context.Context, serverID, entityID int64) (*entities.Blacklist, error) {
	entity := strconv.FormatInt(entityID, 10)
	if s.registry.Blacklist(serverID, entityID) == nil {
		return nil, entities.NewValidationError("entity", entity, "is not blacklisted")
	}

	removed, err := s.registry.RemoveBlacklist(ctx, serverID, entityID)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, entities.NewValidationError("entity", entity, "is not blacklisted")
	}

	log.WithFields(log.Fields{
		"guild_id":  serverID,
		"entity_id": entityID,
	}).Info("Removed blacklist entry")
	return removed, nil
}

// ListServerEntries returns the server-kind entries a guild has created
func (s *BlacklistService) ListServerEntries(serverID int64) []*entities.Blacklist {
	var out []*entities.Blacklist
	for _, b := range s.registry.BlacklistsByServer(serverID) {
		if b.EntityKind == entities.EntityKindServer {
			out = append(out, b)
		}
	}
	return out
}
