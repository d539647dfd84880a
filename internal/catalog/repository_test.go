package catalog

import (
	"context"
	"testing"

	"github.com/selivandex/finpulse/internal/apperrors"
	"github.com/selivandex/finpulse/test/testdb"
)

func TestRepository_GetOrCreateTicker_StableID(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	first, err := repo.GetOrCreateTicker(ctx, "AAPL", "Apple Inc.", "Technology", "Consumer Electronics")
	if err != nil {
		t.Fatalf("failed to create ticker: %v", err)
	}

	second, err := repo.GetOrCreateTicker(ctx, "AAPL", "", "", "")
	if err != nil {
		t.Fatalf("failed to get ticker: %v", err)
	}

	if first != second {
		t.Errorf("same symbol should yield the same id, got %d and %d", first, second)
	}

	if n := db.Count(t, "SELECT COUNT(*) FROM tickers"); n != 1 {
		t.Errorf("expected 1 ticker row, got %d", n)
	}
}

func TestRepository_GetOrCreateTicker_EmptyValuesPreserved(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	if _, err := repo.GetOrCreateTicker(ctx, "NVDA", "NVIDIA Corporation", "Technology", "Semiconductors"); err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	// Empty attributes must not erase what is stored
	if _, err := repo.GetOrCreateTicker(ctx, "NVDA", "", "", ""); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	tickers, err := repo.ListTickers(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}

	if len(tickers) != 1 {
		t.Fatalf("expected 1 ticker, got %d", len(tickers))
	}

	tk := tickers[0]
	if tk.CompanyName == nil || *tk.CompanyName != "NVIDIA Corporation" {
		t.Errorf("company name should survive empty upsert, got %v", tk.CompanyName)
	}
	if tk.Sector == nil || *tk.Sector != "Technology" {
		t.Errorf("sector should survive empty upsert, got %v", tk.Sector)
	}
}

func TestRepository_GetOrCreateTicker_LastWriteWins(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	if _, err := repo.GetOrCreateTicker(ctx, "TSLA", "Tesla", "Consumer Cyclical", "Auto Manufacturers"); err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	if _, err := repo.GetOrCreateTicker(ctx, "TSLA", "Tesla Inc.", "Technology", ""); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	tickers, err := repo.ListTickers(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}

	tk := tickers[0]
	if tk.CompanyName == nil || *tk.CompanyName != "Tesla Inc." {
		t.Errorf("non-empty company name should overwrite, got %v", tk.CompanyName)
	}
	if tk.Sector == nil || *tk.Sector != "Technology" {
		t.Errorf("non-empty sector should overwrite, got %v", tk.Sector)
	}
	if tk.Industry == nil || *tk.Industry != "Auto Manufacturers" {
		t.Errorf("empty industry should not overwrite, got %v", tk.Industry)
	}
}

func TestRepository_GetOrCreateTicker_RequiresSymbol(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)

	_, err := repo.GetOrCreateTicker(context.Background(), "", "X", "Y", "Z")
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRepository_GetOrCreateSector_SharedRows(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	first, err := repo.GetOrCreateSector(ctx, "Energy")
	if err != nil {
		t.Fatalf("failed to create sector: %v", err)
	}

	second, err := repo.GetOrCreateSector(ctx, "Energy")
	if err != nil {
		t.Fatalf("failed to get sector: %v", err)
	}

	if first != second {
		t.Errorf("same name should yield the same id, got %d and %d", first, second)
	}

	if n := db.Count(t, "SELECT COUNT(*) FROM sectors"); n != 1 {
		t.Errorf("expected 1 sector row, got %d", n)
	}
}

func TestRepository_Lists_Ordered(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	repo.GetOrCreateSector(ctx, "Technology")
	repo.GetOrCreateSector(ctx, "Energy")
	repo.GetOrCreateIndustry(ctx, "Software")
	repo.GetOrCreateIndustry(ctx, "Banks")
	repo.GetOrCreateTicker(ctx, "MSFT", "Microsoft", "Technology", "Software")
	repo.GetOrCreateTicker(ctx, "AAPL", "Apple", "Technology", "")

	sectors, err := repo.ListSectors(ctx)
	if err != nil {
		t.Fatalf("failed to list sectors: %v", err)
	}
	if len(sectors) != 2 || sectors[0].Name != "Energy" || sectors[1].Name != "Technology" {
		t.Errorf("sectors should be ordered by name, got %+v", sectors)
	}

	industries, err := repo.ListIndustries(ctx)
	if err != nil {
		t.Fatalf("failed to list industries: %v", err)
	}
	if len(industries) != 2 || industries[0].Name != "Banks" {
		t.Errorf("industries should be ordered by name, got %+v", industries)
	}

	tickers, err := repo.ListTickers(ctx)
	if err != nil {
		t.Fatalf("failed to list tickers: %v", err)
	}
	if len(tickers) != 2 || tickers[0].Symbol != "AAPL" || tickers[1].Symbol != "MSFT" {
		t.Errorf("tickers should be ordered by symbol, got %+v", tickers)
	}
	if tickers[0].Industry != nil {
		t.Errorf("unset industry should resolve to nil, got %v", tickers[0].Industry)
	}
}
