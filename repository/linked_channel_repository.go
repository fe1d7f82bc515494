package repository

import (
	"context"
	"errors"
	"fmt"

	"sincroni/database"
	"sincroni/domain/entities"

	"github.com/jackc/pgx/v5"
)

// LinkedChannelRepository implements the LinkedChannelRepository interface
type LinkedChannelRepository struct {
	q Queryable
}

// NewLinkedChannelRepository creates a new linked channel repository
func NewLinkedChannelRepository(db *database.DB) *LinkedChannelRepository {
	return &LinkedChannelRepository{q: db.Pool}
}

// NewLinkedChannelRepositoryWithTx creates a linked channel repository bound to a transaction
func NewLinkedChannelRepositoryWithTx(tx Queryable) *LinkedChannelRepository {
	return &LinkedChannelRepository{q: tx}
}

func scanLinkedChannel(row pgx.Row) (*entities.LinkedChannelPair, error) {
	var p entities.LinkedChannelPair
	if err := row.Scan(&p.ID, &p.OriginChannelID, &p.DestinationChannelID); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll returns every pair
func (r *LinkedChannelRepository) GetAll(ctx context.Context) ([]*entities.LinkedChannelPair, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, origin_channel_id, destination_channel_id
		FROM linked_channels
		ORDER BY origin_channel_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query linked channels: %w", err)
	}
	defer rows.Close()

	var pairs []*entities.LinkedChannelPair
	for rows.Next() {
		p, err := scanLinkedChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan linked channel: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate linked channels: %w", err)
	}

	return pairs, nil
}

// GetByOriginChannelID returns the pair of an origin channel, or nil
func (r *LinkedChannelRepository) GetByOriginChannelID(ctx context.Context, originChannelID int64) (*entities.LinkedChannelPair, error) {
	p, err := scanLinkedChannel(r.q.QueryRow(ctx, `
		SELECT id, origin_channel_id, destination_channel_id
		FROM linked_channels
		WHERE origin_channel_id = $1
	`, originChannelID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get linked channel for origin %d: %w", originChannelID, err)
	}

	return p, nil
}

// Create inserts a pair and returns it with its generated id
func (r *LinkedChannelRepository) Create(ctx context.Context, originChannelID, destinationChannelID int64) (*entities.LinkedChannelPair, error) {
	p, err := scanLinkedChannel(r.q.QueryRow(ctx, `
		INSERT INTO linked_channels (origin_channel_id, destination_channel_id)
		VALUES ($1, $2)
		RETURNING id, origin_channel_id, destination_channel_id
	`, originChannelID, destinationChannelID))
	if err != nil {
		return nil, fmt.Errorf("failed to create linked channel for origin %d: %w", originChannelID, mapWriteError(err))
	}

	return p, nil
}

// Delete removes the pair of an origin channel
func (r *LinkedChannelRepository) Delete(ctx context.Context, originChannelID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM linked_channels WHERE origin_channel_id = $1`, originChannelID); err != nil {
		return fmt.Errorf("failed to delete linked channel for origin %d: %w", originChannelID, err)
	}
	return nil
}
