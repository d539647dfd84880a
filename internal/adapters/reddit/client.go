// Package reddit fetches posts from subreddit JSON listings without API
// credentials.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/finpulse/internal/adapters/config"
	"github.com/selivandex/finpulse/pkg/logger"
	"github.com/selivandex/finpulse/pkg/models"
)

const listingURL = "https://www.reddit.com/r/%s/new.json?limit=%d"

// Client fetches raw posts from configured subreddits
type Client struct {
	subreddits []string
	userAgent  string
	client     *http.Client
}

// NewClient creates new reddit client
func NewClient(cfg *config.RedditConfig) *Client {
	subreddits := cfg.Subreddits
	if len(subreddits) == 0 {
		subreddits = []string{"stocks", "investing"}
	}

	return &Client{
		subreddits: subreddits,
		userAgent:  cfg.UserAgent,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Source returns the ingestion source name used in telemetry
func (c *Client) Source() string {
	return "reddit"
}

// FetchLatest fetches recent posts across the configured subreddits. A
// failing subreddit is logged and skipped; the rest still contribute.
func (c *Client) FetchLatest(ctx context.Context, limit int) ([]models.RawPost, error) {
	if limit <= 0 {
		return nil, nil
	}

	perSub := limit / len(c.subreddits)
	if perSub < 1 {
		perSub = 1
	}

	posts := make([]models.RawPost, 0, limit)
	for _, subreddit := range c.subreddits {
		fetched, err := c.fetchSubreddit(ctx, subreddit, perSub)
		if err != nil {
			logger.Warn("failed to fetch subreddit",
				zap.String("subreddit", subreddit),
				zap.Error(err),
			)
			continue
		}
		posts = append(posts, fetched...)
	}

	logger.Debug("fetched reddit posts",
		zap.Int("count", len(posts)),
		zap.Strings("subreddits", c.subreddits),
	)

	if len(posts) > limit {
		posts = posts[:limit]
	}

	return posts, nil
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID         string  `json:"id"`
				Title      string  `json:"title"`
				Selftext   string  `json:"selftext"`
				Author     string  `json:"author"`
				Permalink  string  `json:"permalink"`
				Subreddit  string  `json:"subreddit"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *Client) fetchSubreddit(ctx context.Context, subreddit string, limit int) ([]models.RawPost, error) {
	url := fmt.Sprintf(listingURL, subreddit, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from r/%s", resp.StatusCode, subreddit)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed listing
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	posts := make([]models.RawPost, 0, len(parsed.Data.Children))
	for _, child := range parsed.Data.Children {
		d := child.Data

		text := d.Title
		if strings.TrimSpace(d.Selftext) != "" {
			text = d.Title + "\n\n" + d.Selftext
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		posts = append(posts, models.RawPost{
			ID:        "reddit_" + d.ID,
			SourceID:  d.ID,
			URL:       "https://www.reddit.com" + d.Permalink,
			Subreddit: d.Subreddit,
			Title:     d.Title,
			Text:      text,
			Author:    d.Author,
			CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
			Timezone:  "UTC",
		})
	}

	return posts, nil
}
