// Package links maintains the many-to-many associations between posts and
// dimension rows. Linking is always a full replace scoped to one post and one
// dimension: the previous link set is deleted before the new one is inserted,
// inside a single transaction, so readers never observe a partial set.
package links

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/selivandex/finpulse/internal/apperrors"
)

// Repository handles post-to-dimension link persistence
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new link repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ReplaceTickers replaces the ticker link set for a post. Symbols that do not
// resolve to a catalog ticker are skipped, not rejected.
func (r *Repository) ReplaceTickers(ctx context.Context, postID string, symbols []string) error {
	if postID == "" {
		return apperrors.Validation("post id is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := replaceLinks(ctx, tx, "post_tickers", "ticker_id", "tickers", "symbol", postID, symbols); err != nil {
		return apperrors.Storage("failed to replace ticker links", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("failed to commit", err)
	}

	return nil
}

// ReplaceIndustriesAndSectors replaces the industry and sector link sets for a
// post, each dimension independently, in one transaction. Unresolved names are
// skipped.
func (r *Repository) ReplaceIndustriesAndSectors(ctx context.Context, postID string, industries, sectors []string) error {
	if postID == "" {
		return apperrors.Validation("post id is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := replaceLinks(ctx, tx, "post_industries", "industry_id", "industries", "name", postID, industries); err != nil {
		return apperrors.Storage("failed to replace industry links", err)
	}

	if err := replaceLinks(ctx, tx, "post_sectors", "sector_id", "sectors", "name", postID, sectors); err != nil {
		return apperrors.Storage("failed to replace sector links", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("failed to commit", err)
	}

	return nil
}

func replaceLinks(ctx context.Context, tx *sqlx.Tx, linkTable, linkColumn, dimTable, keyColumn, postID string, values []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+linkTable+` WHERE post_id = $1`, postID); err != nil {
		return err
	}

	if len(values) == 0 {
		return nil
	}

	// Insert one link per value that resolves to an existing dimension row
	_, err := tx.ExecContext(ctx, `
		INSERT INTO `+linkTable+` (post_id, `+linkColumn+`)
		SELECT $1, id FROM `+dimTable+` WHERE `+keyColumn+` = ANY($2)
		ON CONFLICT DO NOTHING
	`, postID, pq.Array(values))

	return err
}

// PostIDsForTicker returns the ids of all posts linked to a ticker, most
// recent first
func (r *Repository) PostIDsForTicker(ctx context.Context, symbol string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id
		FROM posts p
		INNER JOIN post_tickers pt ON p.id = pt.post_id
		INNER JOIN tickers t ON pt.ticker_id = t.id
		WHERE t.symbol = $1
		ORDER BY p.created_at DESC
	`, symbol)
	if err != nil {
		return nil, apperrors.Storage("failed to query posts for ticker", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Storage("failed to scan post id", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to iterate post ids", err)
	}

	return ids, nil
}
