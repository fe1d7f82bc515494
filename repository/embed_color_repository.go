package repository

import (
	"context"
	"errors"
	"fmt"

	"sincroni/database"
	"sincroni/domain/entities"

	"github.com/jackc/pgx/v5"
)

// EmbedColorRepository implements the EmbedColorRepository interface
type EmbedColorRepository struct {
	q Queryable
}

// NewEmbedColorRepository creates a new embed color repository
func NewEmbedColorRepository(db *database.DB) *EmbedColorRepository {
	return &EmbedColorRepository{q: db.Pool}
}

// NewEmbedColorRepositoryWithTx creates an embed color repository bound to a transaction
func NewEmbedColorRepositoryWithTx(tx Queryable) *EmbedColorRepository {
	return &EmbedColorRepository{q: tx}
}

func scanEmbedColor(row pgx.Row) (*entities.EmbedColorOverride, error) {
	var c entities.EmbedColorOverride
	if err := row.Scan(&c.ServerID, &c.ChatType, &c.ColorValue); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll returns every override
func (r *EmbedColorRepository) GetAll(ctx context.Context) ([]*entities.EmbedColorOverride, error) {
	rows, err := r.q.Query(ctx, `
		SELECT server_id, chat_type, custom_color
		FROM embed_color
		ORDER BY server_id, chat_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query embed colors: %w", err)
	}
	defer rows.Close()

	var colors []*entities.EmbedColorOverride
	for rows.Next() {
		c, err := scanEmbedColor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan embed color: %w", err)
		}
		colors = append(colors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate embed colors: %w", err)
	}

	return colors, nil
}

// GetByKey returns the override for (server, chat type), or nil
func (r *EmbedColorRepository) GetByKey(ctx context.Context, serverID int64, chatType entities.ChatType) (*entities.EmbedColorOverride, error) {
	c, err := scanEmbedColor(r.q.QueryRow(ctx, `
		SELECT server_id, chat_type, custom_color
		FROM embed_color
		WHERE server_id = $1 AND chat_type = $2
	`, serverID, int16(chatType)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get embed color for server %d: %w", serverID, err)
	}

	return c, nil
}

// Upsert inserts or replaces the override for (server, chat type)
func (r *EmbedColorRepository) Upsert(ctx context.Context, override *entities.EmbedColorOverride) (*entities.EmbedColorOverride, error) {
	c, err := scanEmbedColor(r.q.QueryRow(ctx, `
		INSERT INTO embed_color (server_id, chat_type, custom_color)
		VALUES ($1, $2, $3)
		ON CONFLICT (server_id, chat_type)
		DO UPDATE SET custom_color = EXCLUDED.custom_color, updated_at = NOW()
		RETURNING server_id, chat_type, custom_color
	`, override.ServerID, int16(override.ChatType), override.ColorValue))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert embed color for server %d: %w", override.ServerID, err)
	}

	return c, nil
}

// Delete removes the override for (server, chat type)
func (r *EmbedColorRepository) Delete(ctx context.Context, serverID int64, chatType entities.ChatType) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM embed_color WHERE server_id = $1 AND chat_type = $2`, serverID, int16(chatType)); err != nil {
		return fmt.Errorf("failed to delete embed color for server %d: %w", serverID, err)
	}
	return nil
}
