package repository

import (
	"context"
	"errors"
	"fmt"

	"sincroni/database"
	"sincroni/domain/entities"

	"github.com/jackc/pgx/v5"
)

// GlobalChatLinkRepository implements the GlobalChatLinkRepository interface
type GlobalChatLinkRepository struct {
	q Queryable
}

// NewGlobalChatLinkRepository creates a new global chat link repository
func NewGlobalChatLinkRepository(db *database.DB) *GlobalChatLinkRepository {
	return &GlobalChatLinkRepository{q: db.Pool}
}

// NewGlobalChatLinkRepositoryWithTx creates a global chat link repository bound to a transaction
func NewGlobalChatLinkRepositoryWithTx(tx Queryable) *GlobalChatLinkRepository {
	return &GlobalChatLinkRepository{q: tx}
}

const globalChatColumns = `server_id, channel_id, chat_type, webhook_url`

func scanGlobalChat(row pgx.Row) (*entities.GlobalChatLink, error) {
	var link entities.GlobalChatLink
	if err := row.Scan(&link.ServerID, &link.ChannelID, &link.ChatType, &link.WebhookURL); err != nil {
		return nil, err
	}
	link.ResolveDelivery()
	return &link, nil
}

// GetAll returns every link ordered by channel id
func (r *GlobalChatLinkRepository) GetAll(ctx context.Context) ([]*entities.GlobalChatLink, error) {
	query := `SELECT ` + globalChatColumns + ` FROM global_chat ORDER BY channel_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query global chats: %w", err)
	}
	defer rows.Close()

	var links []*entities.GlobalChatLink
	for rows.Next() {
		link, err := scanGlobalChat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan global chat: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate global chats: %w", err)
	}

	return links, nil
}

// GetByChannelID returns the link of a channel, or nil if none exists
func (r *GlobalChatLinkRepository) GetByChannelID(ctx context.Context, channelID int64) (*entities.GlobalChatLink, error) {
	query := `SELECT ` + globalChatColumns + ` FROM global_chat WHERE channel_id = $1`

	link, err := scanGlobalChat(r.q.QueryRow(ctx, query, channelID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global chat for channel %d: %w", channelID, err)
	}

	return link, nil
}

// Create inserts a link and returns the stored row
func (r *GlobalChatLinkRepository) Create(ctx context.Context, link *entities.GlobalChatLink) (*entities.GlobalChatLink, error) {
	query := `
		INSERT INTO global_chat (server_id, channel_id, chat_type, webhook_url)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + globalChatColumns

	created, err := scanGlobalChat(r.q.QueryRow(ctx, query, link.ServerID, link.ChannelID, int16(link.ChatType), link.WebhookURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create global chat for channel %d: %w", link.ChannelID, mapWriteError(err))
	}

	return created, nil
}

// Delete removes the link of a channel
func (r *GlobalChatLinkRepository) Delete(ctx context.Context, channelID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM global_chat WHERE channel_id = $1`, channelID); err != nil {
		return fmt.Errorf("failed to delete global chat for channel %d: %w", channelID, err)
	}
	return nil
}
