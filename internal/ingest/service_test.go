package ingest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/selivandex/finpulse/internal/apperrors"
	"github.com/selivandex/finpulse/internal/catalog"
	"github.com/selivandex/finpulse/internal/links"
	"github.com/selivandex/finpulse/internal/posts"
	"github.com/selivandex/finpulse/internal/sentiment"
	"github.com/selivandex/finpulse/internal/tagger"
	"github.com/selivandex/finpulse/pkg/models"
	"github.com/selivandex/finpulse/test/testdb"
)

type captureBroadcaster struct {
	mu    sync.Mutex
	posts []*models.Post
}

func (b *captureBroadcaster) BroadcastPost(post *models.Post) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.posts = append(b.posts, post)
}

func newTestService(t *testing.T) (*Service, *testdb.TestDB, *captureBroadcaster) {
	t.Helper()

	db := testdb.Setup(t)
	broadcaster := &captureBroadcaster{}
	svc := NewService(
		posts.NewRepository(db.DB),
		catalog.NewRepository(db.DB),
		links.NewRepository(db.DB),
		sentiment.NewAnalyzer(),
		tagger.New(),
		nil,
		broadcaster,
	)
	return svc, db, broadcaster
}

func TestIngestRaw_FullPipeline(t *testing.T) {
	svc, db, broadcaster := newTestService(t)
	ctx := context.Background()

	raw := models.RawPost{
		ID:        "reddit_abc",
		SourceID:  "abc",
		Subreddit: "stocks",
		Title:     "AAPL earnings",
		Text:      "Very bullish on $AAPL after the earnings beat, expecting a rally",
		Author:    "tester",
		CreatedAt: time.Now().UTC(),
		Timezone:  "UTC",
	}

	post, err := svc.IngestRaw(ctx, raw)
	if err != nil {
		t.Fatalf("failed to ingest: %v", err)
	}

	if post.Sentiment.Label != models.SentimentPositive {
		t.Errorf("expected positive classification, got %s", post.Sentiment.Label)
	}

	// Post persisted
	saved, err := posts.NewRepository(db.DB).GetByID(ctx, "reddit_abc")
	if err != nil {
		t.Fatalf("post should be persisted: %v", err)
	}
	if saved.Sentiment.Label != post.Sentiment.Label {
		t.Errorf("persisted label mismatch: %s vs %s", saved.Sentiment.Label, post.Sentiment.Label)
	}

	// Catalog rows created with reference data
	tickers, err := catalog.NewRepository(db.DB).ListTickers(ctx)
	if err != nil {
		t.Fatalf("failed to list tickers: %v", err)
	}
	if len(tickers) != 1 || tickers[0].Symbol != "AAPL" {
		t.Fatalf("expected AAPL in catalog, got %+v", tickers)
	}
	if tickers[0].Sector == nil || *tickers[0].Sector != "Technology" {
		t.Errorf("expected sector resolved from reference data, got %v", tickers[0].Sector)
	}

	// Links created
	if n := db.Count(t, "SELECT COUNT(*) FROM post_tickers WHERE post_id = $1", "reddit_abc"); n != 1 {
		t.Errorf("expected 1 ticker link, got %d", n)
	}
	if n := db.Count(t, "SELECT COUNT(*) FROM post_sectors WHERE post_id = $1", "reddit_abc"); n != 1 {
		t.Errorf("expected 1 sector link, got %d", n)
	}

	// Broadcast fired
	if len(broadcaster.posts) != 1 || broadcaster.posts[0].ID != "reddit_abc" {
		t.Errorf("expected one broadcast, got %+v", broadcaster.posts)
	}
}

func TestIngestRaw_EmptyText(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.IngestRaw(context.Background(), models.RawPost{ID: "x", CreatedAt: time.Now()})
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSaveAnnotated_ReingestReplacesLinks(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	post := &models.Post{
		ID:        "p1",
		Text:      "some text",
		CreatedAt: time.Now().UTC(),
		Timezone:  "UTC",
		Sentiment: models.Sentiment{
			Label:  models.SentimentNeutral,
			Score:  0.5,
			Scores: map[string]float64{models.SentimentNeutral: 1},
		},
	}

	if err := svc.SaveAnnotated(ctx, post, []string{"AAPL", "MSFT"}, nil, nil); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if n := db.Count(t, "SELECT COUNT(*) FROM post_tickers WHERE post_id = $1", "p1"); n != 2 {
		t.Errorf("expected 2 links, got %d", n)
	}

	if err := svc.SaveAnnotated(ctx, post, []string{"TSLA"}, nil, nil); err != nil {
		t.Fatalf("failed to re-save: %v", err)
	}
	if n := db.Count(t, "SELECT COUNT(*) FROM post_tickers WHERE post_id = $1", "p1"); n != 1 {
		t.Errorf("re-ingest should replace the link set, got %d links", n)
	}
	if n := db.Count(t, "SELECT COUNT(*) FROM posts"); n != 1 {
		t.Errorf("expected a single post row, got %d", n)
	}
}

func TestIngestBatch_SkipsFailures(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	raws := []models.RawPost{
		{ID: "good-1", Text: "bullish on $AAPL", CreatedAt: now, Timezone: "UTC"},
		{ID: "bad", Text: "", CreatedAt: now, Timezone: "UTC"},
		{ID: "good-2", Text: "bearish on $TSLA", CreatedAt: now, Timezone: "UTC"},
	}

	saved, err := svc.IngestBatch(ctx, "test", raws)
	if err != nil {
		t.Fatalf("batch should not fail on individual posts: %v", err)
	}

	if len(saved) != 2 {
		t.Errorf("expected 2 saved posts, got %d", len(saved))
	}
	if n := db.Count(t, "SELECT COUNT(*) FROM posts"); n != 2 {
		t.Errorf("expected 2 persisted posts, got %d", n)
	}
}
