// Package ingest orchestrates the write path: classify a post, persist it,
// get-or-create the dimension rows it references, and replace its links.
package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/selivandex/finpulse/internal/adapters/chmetrics"
	"github.com/selivandex/finpulse/internal/apperrors"
	"github.com/selivandex/finpulse/internal/catalog"
	"github.com/selivandex/finpulse/internal/links"
	"github.com/selivandex/finpulse/internal/posts"
	"github.com/selivandex/finpulse/internal/sentiment"
	"github.com/selivandex/finpulse/internal/tagger"
	"github.com/selivandex/finpulse/pkg/logger"
	"github.com/selivandex/finpulse/pkg/models"
)

// Source produces raw posts in arbitrary batches
type Source interface {
	Source() string
	FetchLatest(ctx context.Context, limit int) ([]models.RawPost, error)
}

// Broadcaster pushes saved posts to live feed subscribers
type Broadcaster interface {
	BroadcastPost(post *models.Post)
}

// Service wires the classifier, tagger, and repositories into the ingestion
// control flow
type Service struct {
	posts       *posts.Repository
	catalog     *catalog.Repository
	links       *links.Repository
	analyzer    *sentiment.Analyzer
	tagger      *tagger.Tagger
	telemetry   *chmetrics.Recorder
	broadcaster Broadcaster
}

// NewService creates new ingest service. Telemetry and broadcaster may be nil.
func NewService(
	postRepo *posts.Repository,
	catalogRepo *catalog.Repository,
	linkRepo *links.Repository,
	analyzer *sentiment.Analyzer,
	tg *tagger.Tagger,
	telemetry *chmetrics.Recorder,
	broadcaster Broadcaster,
) *Service {
	return &Service{
		posts:       postRepo,
		catalog:     catalogRepo,
		links:       linkRepo,
		analyzer:    analyzer,
		tagger:      tg,
		telemetry:   telemetry,
		broadcaster: broadcaster,
	}
}

// IngestRaw classifies and tags a raw post, then persists it with its links
func (s *Service) IngestRaw(ctx context.Context, raw models.RawPost) (*models.Post, error) {
	if raw.Text == "" {
		return nil, apperrors.Validation("post text is required")
	}

	post := &models.Post{
		ID:        raw.ID,
		SourceID:  raw.SourceID,
		URL:       raw.URL,
		Subreddit: raw.Subreddit,
		Title:     raw.Title,
		Text:      raw.Text,
		Author:    raw.Author,
		CreatedAt: raw.CreatedAt,
		Timezone:  raw.Timezone,
		Sentiment: s.analyzer.Classify(raw.Text),
	}

	tags := s.tagger.Tag(raw.Text)

	return post, s.SaveAnnotated(ctx, post, tags.Tickers, tags.Industries, tags.Sectors)
}

// SaveAnnotated persists an already classified post, upserts every referenced
// dimension row, and replaces the post's link sets. Re-ingesting an id fully
// overwrites the prior record, annotation included.
func (s *Service) SaveAnnotated(ctx context.Context, post *models.Post, tickers, industries, sectors []string) error {
	if err := s.posts.Save(ctx, post); err != nil {
		return err
	}

	for _, symbol := range tickers {
		var company, sector, industry string
		if info, ok := s.tagger.Info(symbol); ok {
			company, sector, industry = info.Company, info.Sector, info.Industry
		}
		if _, err := s.catalog.GetOrCreateTicker(ctx, symbol, company, sector, industry); err != nil {
			return err
		}
	}

	for _, name := range industries {
		if _, err := s.catalog.GetOrCreateIndustry(ctx, name); err != nil {
			return err
		}
	}

	for _, name := range sectors {
		if _, err := s.catalog.GetOrCreateSector(ctx, name); err != nil {
			return err
		}
	}

	if err := s.links.ReplaceTickers(ctx, post.ID, tickers); err != nil {
		return err
	}

	if err := s.links.ReplaceIndustriesAndSectors(ctx, post.ID, industries, sectors); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPost(post)
	}

	return nil
}

// IngestBatch ingests a batch of raw posts under one run id. Individual post
// failures are logged and skipped; the batch continues.
func (s *Service) IngestBatch(ctx context.Context, source string, raws []models.RawPost) ([]models.Post, error) {
	runID := uuid.NewString()
	start := time.Now()

	saved := make([]models.Post, 0, len(raws))
	for _, raw := range raws {
		post, err := s.IngestRaw(ctx, raw)
		if err != nil {
			logger.Warn("failed to ingest post",
				zap.String("run_id", runID),
				zap.String("post_id", raw.ID),
				zap.Error(err),
			)
			continue
		}
		saved = append(saved, *post)
	}

	s.telemetry.Record(chmetrics.IngestRun{
		RunID:    runID,
		Source:   source,
		Fetched:  len(raws),
		Saved:    len(saved),
		Duration: time.Since(start),
	})

	logger.Info("ingest batch completed",
		zap.String("run_id", runID),
		zap.String("source", source),
		zap.Int("fetched", len(raws)),
		zap.Int("saved", len(saved)),
		zap.Duration("duration", time.Since(start)),
	)

	return saved, nil
}

// FetchAndIngest pulls the latest posts from a source and ingests them
func (s *Service) FetchAndIngest(ctx context.Context, source Source, limit int) ([]models.Post, error) {
	raws, err := source.FetchLatest(ctx, limit)
	if err != nil {
		return nil, err
	}

	return s.IngestBatch(ctx, source.Source(), raws)
}

// RunLoop fetches and ingests on an interval until the context is cancelled
func (s *Service) RunLoop(ctx context.Context, source Source, limit int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First fetch immediately, then on the interval
	if _, err := s.FetchAndIngest(ctx, source, limit); err != nil {
		logger.Error("scheduled ingest failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.FetchAndIngest(ctx, source, limit); err != nil {
				logger.Error("scheduled ingest failed", zap.Error(err))
			}
		}
	}
}
