package links

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/selivandex/finpulse/internal/apperrors"
	"github.com/selivandex/finpulse/internal/catalog"
	"github.com/selivandex/finpulse/internal/posts"
	"github.com/selivandex/finpulse/pkg/models"
	"github.com/selivandex/finpulse/test/testdb"
)

func seedPost(t *testing.T, db *testdb.TestDB, id string, createdAt time.Time) {
	t.Helper()

	repo := posts.NewRepository(db.DB)
	post := &models.Post{
		ID:        id,
		Text:      "text " + id,
		CreatedAt: createdAt,
		Timezone:  "UTC",
		Sentiment: models.Sentiment{
			Label:  models.SentimentNeutral,
			Score:  0.5,
			Scores: map[string]float64{models.SentimentNeutral: 1},
		},
	}
	if err := repo.Save(context.Background(), post); err != nil {
		t.Fatalf("failed to seed post %s: %v", id, err)
	}
}

func TestRepository_ReplaceTickers_FullReplace(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	cat := catalog.NewRepository(db.DB)
	ctx := context.Background()

	seedPost(t, db, "p1", time.Now().UTC())
	cat.GetOrCreateTicker(ctx, "AAPL", "", "", "")
	cat.GetOrCreateTicker(ctx, "MSFT", "", "", "")
	cat.GetOrCreateTicker(ctx, "NVDA", "", "", "")

	if err := repo.ReplaceTickers(ctx, "p1", []string{"AAPL", "MSFT"}); err != nil {
		t.Fatalf("failed to link: %v", err)
	}

	if n := db.Count(t, "SELECT COUNT(*) FROM post_tickers WHERE post_id = $1", "p1"); n != 2 {
		t.Errorf("expected 2 links, got %d", n)
	}

	// Second replace drops the old set entirely
	if err := repo.ReplaceTickers(ctx, "p1", []string{"NVDA"}); err != nil {
		t.Fatalf("failed to relink: %v", err)
	}

	ids, err := repo.PostIDsForTicker(ctx, "NVDA")
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"p1"}) {
		t.Errorf("expected p1 linked to NVDA, got %v", ids)
	}

	for _, symbol := range []string{"AAPL", "MSFT"} {
		ids, err := repo.PostIDsForTicker(ctx, symbol)
		if err != nil {
			t.Fatalf("failed to query: %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("old %s link should be gone, got %v", symbol, ids)
		}
	}
}

func TestRepository_ReplaceTickers_EmptyClearsLinks(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	cat := catalog.NewRepository(db.DB)
	ctx := context.Background()

	seedPost(t, db, "p1", time.Now().UTC())
	cat.GetOrCreateTicker(ctx, "AAPL", "", "", "")
	repo.ReplaceTickers(ctx, "p1", []string{"AAPL"})

	if err := repo.ReplaceTickers(ctx, "p1", nil); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}

	if n := db.Count(t, "SELECT COUNT(*) FROM post_tickers WHERE post_id = $1", "p1"); n != 0 {
		t.Errorf("expected 0 links, got %d", n)
	}
}

func TestRepository_ReplaceTickers_UnresolvedSkipped(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	cat := catalog.NewRepository(db.DB)
	ctx := context.Background()

	seedPost(t, db, "p1", time.Now().UTC())
	cat.GetOrCreateTicker(ctx, "AAPL", "", "", "")

	// GHOST has no catalog row; it is skipped, not an error
	if err := repo.ReplaceTickers(ctx, "p1", []string{"AAPL", "GHOST"}); err != nil {
		t.Fatalf("unresolved symbol should not fail: %v", err)
	}

	if n := db.Count(t, "SELECT COUNT(*) FROM post_tickers WHERE post_id = $1", "p1"); n != 1 {
		t.Errorf("expected 1 link, got %d", n)
	}
}

func TestRepository_ReplaceIndustriesAndSectors(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	cat := catalog.NewRepository(db.DB)
	ctx := context.Background()

	seedPost(t, db, "p1", time.Now().UTC())
	cat.GetOrCreateSector(ctx, "Technology")
	cat.GetOrCreateSector(ctx, "Energy")
	cat.GetOrCreateIndustry(ctx, "Software")

	err := repo.ReplaceIndustriesAndSectors(ctx, "p1", []string{"Software"}, []string{"Technology", "Energy"})
	if err != nil {
		t.Fatalf("failed to link: %v", err)
	}

	if n := db.Count(t, "SELECT COUNT(*) FROM post_sectors WHERE post_id = $1", "p1"); n != 2 {
		t.Errorf("expected 2 sector links, got %d", n)
	}
	if n := db.Count(t, "SELECT COUNT(*) FROM post_industries WHERE post_id = $1", "p1"); n != 1 {
		t.Errorf("expected 1 industry link, got %d", n)
	}

	// Both dimensions are replaced in one call; a nil list clears its dimension
	if err := repo.ReplaceIndustriesAndSectors(ctx, "p1", nil, []string{"Energy"}); err != nil {
		t.Fatalf("failed to relink: %v", err)
	}

	if n := db.Count(t, "SELECT COUNT(*) FROM post_sectors WHERE post_id = $1", "p1"); n != 1 {
		t.Errorf("expected 1 sector link after replace, got %d", n)
	}
	if n := db.Count(t, "SELECT COUNT(*) FROM post_industries WHERE post_id = $1", "p1"); n != 0 {
		t.Errorf("expected industry links cleared, got %d", n)
	}
}

func TestRepository_Replace_RequiresPostID(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	if err := repo.ReplaceTickers(ctx, "", []string{"AAPL"}); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := repo.ReplaceIndustriesAndSectors(ctx, "", nil, nil); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRepository_PostIDsForTicker_Ordering(t *testing.T) {
	db := testdb.Setup(t)
	repo := NewRepository(db.DB)
	cat := catalog.NewRepository(db.DB)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedPost(t, db, "old", base)
	seedPost(t, db, "new", base.AddDate(0, 0, 5))

	cat.GetOrCreateTicker(ctx, "AAPL", "", "", "")
	repo.ReplaceTickers(ctx, "old", []string{"AAPL"})
	repo.ReplaceTickers(ctx, "new", []string{"AAPL"})

	ids, err := repo.PostIDsForTicker(ctx, "AAPL")
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}

	if !reflect.DeepEqual(ids, []string{"new", "old"}) {
		t.Errorf("expected newest first, got %v", ids)
	}
}
