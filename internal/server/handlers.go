package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selivandex/finpulse/internal/analytics"
	"github.com/selivandex/finpulse/internal/apperrors"
	"github.com/selivandex/finpulse/internal/catalog"
	"github.com/selivandex/finpulse/internal/ingest"
	"github.com/selivandex/finpulse/internal/posts"
	"github.com/selivandex/finpulse/internal/sentiment"
	"github.com/selivandex/finpulse/internal/tagger"
	"github.com/selivandex/finpulse/pkg/models"
)

// HealthChecker reports backing store liveness
type HealthChecker interface {
	Health() error
}

// Handler carries the dependencies behind the HTTP API
type Handler struct {
	maxPageSize int
	health      HealthChecker
	posts       *posts.Repository
	catalog     *catalog.Repository
	engine      *analytics.Engine
	ingest      *ingest.Service
	analyzer    *sentiment.Analyzer
	tagger      *tagger.Tagger
	source      ingest.Source
	hub         *Hub
}

// NewHandler creates new API handler. Source may be nil when no ingestion
// source is configured.
func NewHandler(
	maxPageSize int,
	health HealthChecker,
	postRepo *posts.Repository,
	catalogRepo *catalog.Repository,
	engine *analytics.Engine,
	ingestSvc *ingest.Service,
	analyzer *sentiment.Analyzer,
	tg *tagger.Tagger,
	source ingest.Source,
	hub *Hub,
) *Handler {
	return &Handler{
		maxPageSize: maxPageSize,
		health:      health,
		posts:       postRepo,
		catalog:     catalogRepo,
		engine:      engine,
		ingest:      ingestSvc,
		analyzer:    analyzer,
		tagger:      tg,
		source:      source,
		hub:         hub,
	}
}

// Health reports service liveness, including the backing store
func (h *Handler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, envelope{
				Success: false,
				Error:   &errorBody{Code: "unavailable", Message: "database unreachable"},
			})
			return
		}
	}

	respondOK(c, gin.H{"status": "ok"})
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Sentiment  models.Sentiment `json:"sentiment"`
	Tickers    []string         `json:"tickers"`
	Sectors    []string         `json:"sectors"`
	Industries []string         `json:"industries"`
}

// Analyze classifies and tags text without persisting anything
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		respondError(c, apperrors.Validation("text is required"))
		return
	}

	tags := h.tagger.Tag(req.Text)

	respondOK(c, analyzeResponse{
		Sentiment:  h.analyzer.Classify(req.Text),
		Tickers:    tags.Tickers,
		Sectors:    tags.Sectors,
		Industries: tags.Industries,
	})
}

// FetchPosts pulls the latest posts from the configured source and ingests them
func (h *Handler) FetchPosts(c *gin.Context) {
	if h.source == nil {
		respondError(c, apperrors.Validation("no ingestion source is configured"))
		return
	}

	limit, err := parseIntParam(c, "limit", 25)
	if err != nil {
		respondError(c, err)
		return
	}
	if limit <= 0 || limit > h.maxPageSize {
		respondError(c, apperrors.Validation("limit must be between 1 and %d", h.maxPageSize))
		return
	}

	saved, err := h.ingest.FetchAndIngest(c.Request.Context(), h.source, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"saved": len(saved), "posts": saved})
}

type savePostRequest struct {
	ID         string            `json:"id"`
	SourceID   string            `json:"source_id"`
	URL        string            `json:"url"`
	Subreddit  string            `json:"subreddit"`
	Title      string            `json:"title"`
	Text       string            `json:"text"`
	Author     string            `json:"author"`
	CreatedAt  time.Time         `json:"created_at"`
	Timezone   string            `json:"timezone"`
	Sentiment  *models.Sentiment `json:"sentiment"`
	Tickers    []string          `json:"tickers"`
	Sectors    []string          `json:"sectors"`
	Industries []string          `json:"industries"`
}

// SavePost ingests one post. Classification and tags are taken from the body
// when supplied and computed from the text otherwise. Re-posting an id fully
// replaces the stored record and its links.
func (h *Handler) SavePost(c *gin.Context) {
	var req savePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}

	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	post := &models.Post{
		ID:        req.ID,
		SourceID:  req.SourceID,
		URL:       req.URL,
		Subreddit: req.Subreddit,
		Title:     req.Title,
		Text:      req.Text,
		Author:    req.Author,
		CreatedAt: req.CreatedAt,
		Timezone:  req.Timezone,
	}

	if req.Sentiment != nil {
		post.Sentiment = *req.Sentiment
	} else {
		post.Sentiment = h.analyzer.Classify(req.Text)
	}

	tickers, sectors, industries := req.Tickers, req.Sectors, req.Industries
	if tickers == nil && sectors == nil && industries == nil {
		tags := h.tagger.Tag(req.Text)
		tickers, sectors, industries = tags.Tickers, tags.Sectors, tags.Industries
	}

	if err := h.ingest.SaveAnnotated(c.Request.Context(), post, tickers, industries, sectors); err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, post)
}

// ListPosts returns a filtered page of posts with the total match count
func (h *Handler) ListPosts(c *gin.Context) {
	spec, err := parseFilterSpec(c)
	if err != nil {
		respondError(c, err)
		return
	}

	limit, offset, err := parsePagination(c, h.maxPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()

	page, err := h.posts.ListFiltered(ctx, spec, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	total, err := h.posts.CountFiltered(ctx, spec)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, page, total, limit, offset)
}

// GetPost returns one post by id
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.posts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, post)
}

// Stats returns the sentiment distribution over the filtered corpus
func (h *Handler) Stats(c *gin.Context) {
	spec, err := parseFilterSpec(c)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.engine.SentimentStats(c.Request.Context(), spec)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, stats)
}

// Trends returns the bucketed sentiment time series
func (h *Handler) Trends(c *gin.Context) {
	spec, err := parseFilterSpec(c)
	if err != nil {
		respondError(c, err)
		return
	}

	granularity, days, err := parseTrendParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	trend, err := h.engine.SentimentTrends(c.Request.Context(), spec, granularity, days)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, trend)
}

// MarketPulse returns the composite market snapshot. Only date bounds apply.
func (h *Handler) MarketPulse(c *gin.Context) {
	spec, err := parseFilterSpec(c)
	if err != nil {
		respondError(c, err)
		return
	}

	pulse, err := h.engine.MarketPulse(c.Request.Context(), spec)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, pulse)
}

// SentimentByTicker returns per-ticker sentiment breakdowns. The optional
// tickers parameter is a comma-separated symbol list; absent means all.
func (h *Handler) SentimentByTicker(c *gin.Context) {
	spec, err := parseFilterSpec(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var symbols []string
	if raw := c.Query("tickers"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, strings.ToUpper(s))
			}
		}
	}

	breakdown, err := h.engine.SentimentByTicker(c.Request.Context(), symbols, spec)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, breakdown)
}

// ListTickers returns the ticker catalog with resolved sector and industry names
func (h *Handler) ListTickers(c *gin.Context) {
	tickers, err := h.catalog.ListTickers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, tickers)
}

// ListSectors returns all known sectors
func (h *Handler) ListSectors(c *gin.Context) {
	sectors, err := h.catalog.ListSectors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, sectors)
}

// ListIndustries returns all known industries
func (h *Handler) ListIndustries(c *gin.Context) {
	industries, err := h.catalog.ListIndustries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, industries)
}

// Feed upgrades the connection to the live post stream
func (h *Handler) Feed(c *gin.Context) {
	h.hub.ServeFeed(c.Writer, c.Request)
}
