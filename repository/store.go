package repository

import (
	"context"
	"fmt"

	"sincroni/database"
	"sincroni/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// Store implements interfaces.RegistryStore on top of the connection pool
type Store struct {
	db             *database.DB
	globalChats    *GlobalChatLinkRepository
	blacklists     *BlacklistRepository
	linkedChannels *LinkedChannelRepository
	embedColors    *EmbedColorRepository
}

// NewStore creates a registry store backed by db
func NewStore(db *database.DB) *Store {
	return &Store{
		db:             db,
		globalChats:    NewGlobalChatLinkRepository(db),
		blacklists:     NewBlacklistRepository(db),
		linkedChannels: NewLinkedChannelRepository(db),
		embedColors:    NewEmbedColorRepository(db),
	}
}

func (s *Store) GlobalChats() interfaces.GlobalChatLinkRepository { return s.globalChats }

func (s *Store) Blacklists() interfaces.BlacklistRepository { return s.blacklists }

func (s *Store) LinkedChannels() interfaces.LinkedChannelRepository { return s.linkedChannels }

func (s *Store) EmbedColors() interfaces.EmbedColorRepository { return s.embedColors }

// LoadSnapshot reads all four tables inside one read-only repeatable-read
// transaction so the registry never hydrates from a torn state.
func (s *Store) LoadSnapshot(ctx context.Context) (*interfaces.RegistrySnapshot, error) {
	snapshot := &interfaces.RegistrySnapshot{}

	err := s.db.WithSnapshot(ctx, func(tx pgx.Tx) error {
		var err error

		if snapshot.GlobalChats, err = NewGlobalChatLinkRepositoryWithTx(tx).GetAll(ctx); err != nil {
			return err
		}
		if snapshot.Blacklists, err = NewBlacklistRepositoryWithTx(tx).GetAll(ctx); err != nil {
			return err
		}
		if snapshot.LinkedChannels, err = NewLinkedChannelRepositoryWithTx(tx).GetAll(ctx); err != nil {
			return err
		}
		if snapshot.EmbedColors, err = NewEmbedColorRepositoryWithTx(tx).GetAll(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load registry snapshot: %w", err)
	}

	log.WithFields(log.Fields{
		"global_chats":    len(snapshot.GlobalChats),
		"blacklists":      len(snapshot.Blacklists),
		"linked_channels": len(snapshot.LinkedChannels),
		"embed_colors":    len(snapshot.EmbedColors),
	}).Debug("Loaded registry snapshot")

	return snapshot, nil
}
