// Package posts is the durable store of analyzed posts and their sentiment
// annotations.
package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/selivandex/finpulse/internal/apperrors"
	"github.com/selivandex/finpulse/internal/filter"
	"github.com/selivandex/finpulse/pkg/models"
)

const postColumns = `p.id, p.source_id, p.url, p.subreddit, p.title, p.text, p.author,
		p.created_at, p.timezone, p.sentiment_label, p.sentiment_score, p.sentiment_scores, p.analyzed_at`

// Repository handles post persistence
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new post repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts a post by id. Re-saving an existing id overwrites every field,
// including the sentiment annotation. The analysis timestamp is always set
// server-side, discarding any caller-supplied value.
func (r *Repository) Save(ctx context.Context, post *models.Post) error {
	if err := validate(post); err != nil {
		return err
	}

	scores, err := json.Marshal(post.Sentiment.Scores)
	if err != nil {
		return apperrors.Storage("failed to encode sentiment scores", err)
	}

	post.AnalyzedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO posts (
			id, source_id, url, subreddit, title, text, author,
			created_at, timezone, sentiment_label, sentiment_score, sentiment_scores, analyzed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			source_id = EXCLUDED.source_id,
			url = EXCLUDED.url,
			subreddit = EXCLUDED.subreddit,
			title = EXCLUDED.title,
			text = EXCLUDED.text,
			author = EXCLUDED.author,
			created_at = EXCLUDED.created_at,
			timezone = EXCLUDED.timezone,
			sentiment_label = EXCLUDED.sentiment_label,
			sentiment_score = EXCLUDED.sentiment_score,
			sentiment_scores = EXCLUDED.sentiment_scores,
			analyzed_at = EXCLUDED.analyzed_at
	`,
		post.ID, post.SourceID, post.URL, post.Subreddit, post.Title, post.Text, post.Author,
		post.CreatedAt, post.Timezone, post.Sentiment.Label, post.Sentiment.Score, scores, post.AnalyzedAt,
	)

	if err != nil {
		return apperrors.Storage("failed to save post", err)
	}

	return nil
}

// GetByID returns a single post
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s FROM posts p WHERE p.id = $1
	`, postColumns), id)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("post %s not found", id)
	}
	if err != nil {
		return nil, apperrors.Storage("failed to get post", err)
	}

	return post, nil
}

// ListRecent returns posts ordered by creation timestamp descending
func (r *Repository) ListRecent(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return r.ListFiltered(ctx, filter.Spec{}, limit, offset)
}

// ListFiltered returns posts matching the filter spec, newest first.
// Posts matching a dimension filter through multiple link rows appear once.
func (r *Repository) ListFiltered(ctx context.Context, spec filter.Spec, limit, offset int) ([]models.Post, error) {
	if limit < 0 || offset < 0 {
		return nil, apperrors.Validation("limit and offset must be non-negative")
	}

	clause := spec.Build(0)

	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM posts p%s%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, postColumns, clause.Joins, clause.Where(), clause.NextArg(), clause.NextArg()+1)

	args := append(clause.Args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("failed to query posts", err)
	}
	defer rows.Close()

	result := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, apperrors.Storage("failed to scan post", err)
		}
		result = append(result, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to iterate posts", err)
	}

	return result, nil
}

// CountFiltered counts posts matching the filter spec
func (r *Repository) CountFiltered(ctx context.Context, spec filter.Spec) (int, error) {
	clause := spec.Build(0)

	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT p.id) FROM posts p%s%s
	`, clause.Joins, clause.Where())

	var count int
	if err := r.db.QueryRowContext(ctx, query, clause.Args...).Scan(&count); err != nil {
		return 0, apperrors.Storage("failed to count posts", err)
	}

	return count, nil
}

func validate(post *models.Post) error {
	if post == nil {
		return apperrors.Validation("post is required")
	}
	if post.ID == "" {
		return apperrors.Validation("post id is required")
	}
	if post.Text == "" {
		return apperrors.Validation("post text is required")
	}
	if post.CreatedAt.IsZero() {
		return apperrors.Validation("post created_at is required")
	}
	if !models.ValidLabel(post.Sentiment.Label) {
		return apperrors.Validation("invalid sentiment label %q", post.Sentiment.Label)
	}
	if post.Sentiment.Score < 0 || post.Sentiment.Score > 1 {
		return apperrors.Validation("sentiment score must be in [0, 1]")
	}
	if len(post.Sentiment.Scores) == 0 {
		return apperrors.Validation("sentiment score distribution is required")
	}
	return nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanPost(row scannable) (*models.Post, error) {
	var post models.Post
	var scores []byte

	err := row.Scan(
		&post.ID, &post.SourceID, &post.URL, &post.Subreddit, &post.Title, &post.Text, &post.Author,
		&post.CreatedAt, &post.Timezone, &post.Sentiment.Label, &post.Sentiment.Score, &scores, &post.AnalyzedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(scores, &post.Sentiment.Scores); err != nil {
		return nil, fmt.Errorf("corrupt sentiment scores for post %s: %w", post.ID, err)
	}

	return &post, nil
}
