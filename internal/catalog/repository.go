// Package catalog maintains the dimension tables: tickers, sectors, and
// industries. Dimension rows are created lazily on first reference and shared
// across all posts that mention them.
package catalog

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/selivandex/finpulse/internal/apperrors"
	"github.com/selivandex/finpulse/pkg/models"
)

// Repository handles dimension table persistence
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new catalog repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateTicker upserts a ticker and returns its stable id. Non-empty
// company/sector/industry values overwrite what is stored (last-write-wins);
// empty values leave the stored attributes untouched. Sector and industry rows
// are get-or-created by name as a side effect, all in one transaction.
func (r *Repository) GetOrCreateTicker(ctx context.Context, symbol, company, sector, industry string) (int64, error) {
	if symbol == "" {
		return 0, apperrors.Validation("ticker symbol is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperrors.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var sectorID, industryID sql.NullInt64

	if sector != "" {
		id, err := upsertName(ctx, tx, "sectors", sector)
		if err != nil {
			return 0, apperrors.Storage("failed to upsert sector", err)
		}
		sectorID = sql.NullInt64{Int64: id, Valid: true}
	}

	if industry != "" {
		id, err := upsertName(ctx, tx, "industries", industry)
		if err != nil {
			return 0, apperrors.Storage("failed to upsert industry", err)
		}
		industryID = sql.NullInt64{Int64: id, Valid: true}
	}

	var companyName sql.NullString
	if company != "" {
		companyName = sql.NullString{String: company, Valid: true}
	}

	var tickerID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO tickers (symbol, company_name, sector_id, industry_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol) DO UPDATE SET
			company_name = COALESCE(EXCLUDED.company_name, tickers.company_name),
			sector_id = COALESCE(EXCLUDED.sector_id, tickers.sector_id),
			industry_id = COALESCE(EXCLUDED.industry_id, tickers.industry_id)
		RETURNING id
	`, symbol, companyName, sectorID, industryID).Scan(&tickerID)

	if err != nil {
		return 0, apperrors.Storage("failed to upsert ticker", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.Storage("failed to commit", err)
	}

	return tickerID, nil
}

// GetOrCreateSector returns a stable id for the named sector
func (r *Repository) GetOrCreateSector(ctx context.Context, name string) (int64, error) {
	return r.getOrCreateName(ctx, "sectors", name)
}

// GetOrCreateIndustry returns a stable id for the named industry
func (r *Repository) GetOrCreateIndustry(ctx context.Context, name string) (int64, error) {
	return r.getOrCreateName(ctx, "industries", name)
}

func (r *Repository) getOrCreateName(ctx context.Context, table, name string) (int64, error) {
	if name == "" {
		return 0, apperrors.Validation("name is required")
	}

	id, err := upsertName(ctx, r.db, table, name)
	if err != nil {
		return 0, apperrors.Storage("failed to upsert "+table, err)
	}

	return id, nil
}

// upsertName inserts a dimension row by unique name, returning the existing
// row's id on conflict. The no-op DO UPDATE makes RETURNING yield the id in
// both cases.
func upsertName(ctx context.Context, q sqlx.QueryerContext, table, name string) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, q, &id, `
		INSERT INTO `+table+` (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name)
	return id, err
}

// ListTickers returns the full ticker catalog ordered by symbol, with sector
// and industry names resolved
func (r *Repository) ListTickers(ctx context.Context) ([]models.Ticker, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.symbol, t.company_name, s.name AS sector, i.name AS industry
		FROM tickers t
		LEFT JOIN sectors s ON t.sector_id = s.id
		LEFT JOIN industries i ON t.industry_id = i.id
		ORDER BY t.symbol
	`)
	if err != nil {
		return nil, apperrors.Storage("failed to list tickers", err)
	}
	defer rows.Close()

	result := make([]models.Ticker, 0)
	for rows.Next() {
		var t models.Ticker
		if err := rows.Scan(&t.ID, &t.Symbol, &t.CompanyName, &t.Sector, &t.Industry); err != nil {
			return nil, apperrors.Storage("failed to scan ticker", err)
		}
		result = append(result, t)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to iterate tickers", err)
	}

	return result, nil
}

// ListSectors returns all sectors ordered by name
func (r *Repository) ListSectors(ctx context.Context) ([]models.Sector, error) {
	result := make([]models.Sector, 0)
	if err := r.db.SelectContext(ctx, &result, `SELECT id, name FROM sectors ORDER BY name`); err != nil {
		return nil, apperrors.Storage("failed to list sectors", err)
	}
	return result, nil
}

// ListIndustries returns all industries ordered by name
func (r *Repository) ListIndustries(ctx context.Context) ([]models.Industry, error) {
	result := make([]models.Industry, 0)
	if err := r.db.SelectContext(ctx, &result, `SELECT id, name FROM industries ORDER BY name`); err != nil {
		return nil, apperrors.Storage("failed to list industries", err)
	}
	return result, nil
}
