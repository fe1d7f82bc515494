package repository

import (
	"context"
	"errors"
	"fmt"

	"sincroni/database"
	"sincroni/domain/entities"

	"github.com/jackc/pgx/v5"
)

// BlacklistRepository implements the BlacklistRepository interface
type BlacklistRepository struct {
	q Queryable
}

// NewBlacklistRepository creates a new blacklist repository
func NewBlacklistRepository(db *database.DB) *BlacklistRepository {
	return &BlacklistRepository{q: db.Pool}
}

// NewBlacklistRepositoryWithTx creates a blacklist repository bound to a transaction
func NewBlacklistRepositoryWithTx(tx Queryable) *BlacklistRepository {
	return &BlacklistRepository{q: tx}
}

const blacklistColumns = `id, server_id, entity_id, pub, dev, repeat, blacklist_type, reason`

// The scope set is stored as one boolean column per broadcast chat type.
func scanBlacklist(row pgx.Row) (*entities.Blacklist, error) {
	var (
		b             entities.Blacklist
		pub, dev, rep bool
	)
	if err := row.Scan(&b.ID, &b.ServerID, &b.EntityID, &pub, &dev, &rep, &b.EntityKind, &b.Reason); err != nil {
		return nil, err
	}
	if pub {
		b.Scopes = b.Scopes.With(entities.ChatTypePublic)
	}
	if dev {
		b.Scopes = b.Scopes.With(entities.ChatTypeDeveloper)
	}
	if rep {
		b.Scopes = b.Scopes.With(entities.ChatTypeRepeat)
	}
	return &b, nil
}

// GetAll returns every blacklist row
func (r *BlacklistRepository) GetAll(ctx context.Context) ([]*entities.Blacklist, error) {
	rows, err := r.q.Query(ctx, `SELECT `+blacklistColumns+` FROM blacklist ORDER BY server_id, entity_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blacklists: %w", err)
	}
	defer rows.Close()

	var blacklists []*entities.Blacklist
	for rows.Next() {
		b, err := scanBlacklist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blacklist: %w", err)
		}
		blacklists = append(blacklists, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blacklists: %w", err)
	}

	return blacklists, nil
}

// GetByKey returns the row for (server, entity), or nil if none exists
func (r *BlacklistRepository) GetByKey(ctx context.Context, serverID, entityID int64) (*entities.Blacklist, error) {
	query := `SELECT ` + blacklistColumns + ` FROM blacklist WHERE server_id = $1 AND entity_id = $2`

	b, err := scanBlacklist(r.q.QueryRow(ctx, query, serverID, entityID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blacklist for server %d entity %d: %w", serverID, entityID, err)
	}

	return b, nil
}

// Create inserts a blacklist row and returns it with its generated id
func (r *BlacklistRepository) Create(ctx context.Context, blacklist *entities.Blacklist) (*entities.Blacklist, error) {
	query := `
		INSERT INTO blacklist (server_id, entity_id, pub, dev, repeat, blacklist_type, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + blacklistColumns

	created, err := scanBlacklist(r.q.QueryRow(ctx, query,
		blacklist.ServerID,
		blacklist.EntityID,
		blacklist.Scopes.Has(entities.ChatTypePublic),
		blacklist.Scopes.Has(entities.ChatTypeDeveloper),
		blacklist.Scopes.Has(entities.ChatTypeRepeat),
		int16(blacklist.EntityKind),
		blacklist.Reason,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create blacklist for server %d entity %d: %w",
			blacklist.ServerID, blacklist.EntityID, mapWriteError(err))
	}

	return created, nil
}

// Delete removes the row for (server, entity)
func (r *BlacklistRepository) Delete(ctx context.Context, serverID, entityID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM blacklist WHERE server_id = $1 AND entity_id = $2`, serverID, entityID); err != nil {
		return fmt.Errorf("failed to delete blacklist for server %d entity %d: %w", serverID, entityID, err)
	}
	return nil
}
