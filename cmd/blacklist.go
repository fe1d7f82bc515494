package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sincroni/config"
	"sincroni/database"
	"sincroni/domain/entities"
	"sincroni/domain/registry"
	"sincroni/domain/services"
	"sincroni/repository"

	log "github.com/sirupsen/logrus"
)

// GlobalBlacklistArgs are the parsed arguments of `blacklist global`
type GlobalBlacklistArgs struct {
	EntityID   int64
	EntityKind entities.EntityKind
	Reason     string
}

// ParseGlobalBlacklistArgs parses `<entity-id> <user|server> [reason...]`
func ParseGlobalBlacklistArgs(args []string) (*GlobalBlacklistArgs, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: sincroni blacklist global <entity-id> <user|server> [reason]")
	}

	entityID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || entityID <= 0 {
		return nil, fmt.Errorf("invalid entity id: %s", args[0])
	}

	var kind entities.EntityKind
	switch strings.ToLower(args[1]) {
	case "user":
		kind = entities.EntityKindUser
	case "server", "guild":
		kind = entities.EntityKindServer
	default:
		return nil, fmt.Errorf("unknown entity kind %q, expected user or server", args[1])
	}

	return &GlobalBlacklistArgs{
		EntityID:   entityID,
		EntityKind: kind,
		Reason:     strings.TrimSpace(strings.Join(args[2:], " ")),
	}, nil
}

// AddGlobalBlacklist stores a blacklist row that applies in every guild and
// every broadcast scope. A running bot picks it up on its next start.
func AddGlobalBlacklist(ctx context.Context, args []string) error {
	parsed, err := ParseGlobalBlacklistArgs(args)
	if err != nil {
		return err
	}

	cfg := config.Get()
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	reg := registry.New(repository.NewStore(db), nil)
	if err := reg.Hydrate(ctx); err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	entry, err := services.NewBlacklistService(reg).Add(ctx, services.BlacklistParams{
		ServerID:   entities.GlobalServerID,
		EntityID:   parsed.EntityID,
		EntityKind: parsed.EntityKind,
		Scopes:     entities.NewScopeSet(entities.ChatTypePublic, entities.ChatTypeDeveloper, entities.ChatTypeRepeat),
		Reason:     parsed.Reason,
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"entity_id":   entry.EntityID,
		"entity_kind": entry.EntityKind.String(),
		"reason":      reason(entry),
	}).Info("Global blacklist entry added")
	return nil
}

func reason(b *entities.Blacklist) string {
	if b.Reason == nil {
		return entities.DefaultBlacklistReason
	}
	return *b.Reason
}
