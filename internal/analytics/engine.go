// Package analytics computes aggregate views over the post corpus: label
// statistics, time-bucketed trends, the composite market pulse, and per-ticker
// breakdowns. Every operation is a pure function of the current store contents;
// filtering goes through the same filter.Spec builder the post listings use.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/selivandex/finpulse/internal/apperrors"
	"github.com/selivandex/finpulse/internal/filter"
	"github.com/selivandex/finpulse/pkg/models"
)

// Granularity values accepted by SentimentTrends
const (
	GranularityDay  = "day"
	GranularityWeek = "week"
)

// DefaultTrendDays is the implicit trend window when no date bounds are given
const DefaultTrendDays = 7

const topTickerLimit = 10

// minRankedPosts is the qualifying-post floor for most positive/negative
// rankings; tickers below it are too thinly discussed to rank.
const minRankedPosts = 3

// Engine runs aggregation queries against the relational store
type Engine struct {
	db *sqlx.DB
}

// NewEngine creates new analytics engine
func NewEngine(db *sqlx.DB) *Engine {
	return &Engine{db: db}
}

// SentimentStats returns label counts and percentages over the filtered
// corpus. An empty result set yields {total: 0, by_sentiment: {}}.
func (e *Engine) SentimentStats(ctx context.Context, spec filter.Spec) (*models.SentimentStats, error) {
	clause := spec.Build(0)

	query := fmt.Sprintf(`
		SELECT p.sentiment_label, COUNT(DISTINCT p.id) AS count
		FROM posts p%s%s
		GROUP BY p.sentiment_label
	`, clause.Joins, clause.Where())

	rows, err := e.db.QueryContext(ctx, query, clause.Args...)
	if err != nil {
		return nil, apperrors.Storage("failed to query sentiment stats", err)
	}
	defer rows.Close()

	stats := &models.SentimentStats{BySentiment: make(map[string]models.SentimentCount)}
	counts := make(map[string]int)

	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, apperrors.Storage("failed to scan sentiment stats", err)
		}
		counts[label] = count
		stats.Total += count
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to iterate sentiment stats", err)
	}

	if stats.Total == 0 {
		return stats, nil
	}

	total := decimal.NewFromInt(int64(stats.Total))
	for label, count := range counts {
		percentage := decimal.NewFromInt(int64(count) * 100).Div(total).Round(2)
		stats.BySentiment[label] = models.SentimentCount{
			Count:      count,
			Percentage: percentage.InexactFloat64(),
		}
	}

	return stats, nil
}

// SentimentTrends returns per-bucket label counts, newest bucket first.
// Buckets are UTC calendar dates for day granularity, ISO year-week
// identifiers for week granularity. When the spec carries no date bounds, an
// implicit lower bound of now minus defaultDays applies.
func (e *Engine) SentimentTrends(ctx context.Context, spec filter.Spec, granularity string, defaultDays int) ([]models.TrendPoint, error) {
	var bucket string
	switch granularity {
	case GranularityWeek:
		bucket = `to_char(p.created_at AT TIME ZONE 'UTC', 'IYYY-"W"IW')`
	case GranularityDay, "":
		bucket = `to_char(p.created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')`
	default:
		return nil, apperrors.Validation("invalid granularity %q, must be day or week", granularity)
	}

	if defaultDays <= 0 {
		defaultDays = DefaultTrendDays
	}

	clause := spec.Build(0)
	args := clause.Args

	var extra []string
	if !spec.HasDates() {
		cutoff := time.Now().UTC().AddDate(0, 0, -defaultDays)
		extra = append(extra, fmt.Sprintf("p.created_at >= $%d", clause.NextArg()))
		args = append(args, cutoff)
	}

	query := fmt.Sprintf(`
		SELECT %s AS bucket, p.sentiment_label, COUNT(DISTINCT p.id) AS count
		FROM posts p%s%s
		GROUP BY bucket, p.sentiment_label
		ORDER BY bucket DESC
	`, bucket, clause.Joins, clause.Where(extra...))

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("failed to query sentiment trends", err)
	}
	defer rows.Close()

	trends := make([]models.TrendPoint, 0)
	index := make(map[string]int)

	for rows.Next() {
		var key, label string
		var count int
		if err := rows.Scan(&key, &label, &count); err != nil {
			return nil, apperrors.Storage("failed to scan trend row", err)
		}

		i, ok := index[key]
		if !ok {
			trends = append(trends, models.TrendPoint{Bucket: key})
			i = len(trends) - 1
			index[key] = i
		}

		switch label {
		case models.SentimentPositive:
			trends[i].Positive = count
		case models.SentimentNegative:
			trends[i].Negative = count
		case models.SentimentNeutral:
			trends[i].Neutral = count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to iterate trend rows", err)
	}

	return trends, nil
}

// MarketPulse builds the composite market snapshot over an optional date
// range. Dimension criteria on the spec are ignored; only date bounds apply.
func (e *Engine) MarketPulse(ctx context.Context, spec filter.Spec) (*models.MarketPulse, error) {
	dates := spec.DateOnly()

	pulse := &models.MarketPulse{
		MostDiscussed:     make([]models.TickerActivity, 0),
		MostPositive:      make([]models.TickerScore, 0),
		MostNegative:      make([]models.TickerScore, 0),
		SentimentBySector: make(map[string]models.SectorSentiment),
		OverallSentiment: models.OverallSentiment{
			Distribution: zeroDistribution(),
		},
	}

	if err := e.mostDiscussed(ctx, dates, pulse); err != nil {
		return nil, err
	}

	var err error
	pulse.MostPositive, err = e.rankedByLabel(ctx, dates, models.SentimentPositive, "DESC")
	if err != nil {
		return nil, err
	}

	pulse.MostNegative, err = e.rankedByLabel(ctx, dates, models.SentimentNegative, "ASC")
	if err != nil {
		return nil, err
	}

	if err := e.sentimentBySector(ctx, dates, pulse); err != nil {
		return nil, err
	}

	if err := e.overallSentiment(ctx, dates, pulse); err != nil {
		return nil, err
	}

	return pulse, nil
}

func (e *Engine) mostDiscussed(ctx context.Context, dates filter.Spec, pulse *models.MarketPulse) error {
	clause := dates.Build(0)

	query := fmt.Sprintf(`
		SELECT t.symbol, COUNT(DISTINCT p.id) AS post_count, AVG(p.sentiment_score) AS avg_score
		FROM tickers t
		INNER JOIN post_tickers pt ON t.id = pt.ticker_id
		INNER JOIN posts p ON pt.post_id = p.id%s
		GROUP BY t.symbol
		ORDER BY post_count DESC
		LIMIT %d
	`, clause.Where(), topTickerLimit)

	rows, err := e.db.QueryContext(ctx, query, clause.Args...)
	if err != nil {
		return apperrors.Storage("failed to query most discussed tickers", err)
	}
	defer rows.Close()

	for rows.Next() {
		var activity models.TickerActivity
		var avg float64
		if err := rows.Scan(&activity.Ticker, &activity.PostCount, &avg); err != nil {
			return apperrors.Storage("failed to scan ticker activity", err)
		}
		activity.AvgSentimentScore = round2(avg)
		pulse.MostDiscussed = append(pulse.MostDiscussed, activity)
	}

	return rows.Err()
}

// rankedByLabel ranks tickers by average score over posts carrying one label,
// excluding tickers with fewer than minRankedPosts qualifying posts.
func (e *Engine) rankedByLabel(ctx context.Context, dates filter.Spec, label, direction string) ([]models.TickerScore, error) {
	clause := dates.Build(1)
	args := append([]interface{}{label}, clause.Args...)

	query := fmt.Sprintf(`
		SELECT t.symbol, AVG(p.sentiment_score) AS avg_sentiment, COUNT(DISTINCT p.id) AS post_count
		FROM tickers t
		INNER JOIN post_tickers pt ON t.id = pt.ticker_id
		INNER JOIN posts p ON pt.post_id = p.id%s
		GROUP BY t.symbol
		HAVING COUNT(DISTINCT p.id) >= %d
		ORDER BY avg_sentiment %s
		LIMIT %d
	`, clause.Where("p.sentiment_label = $1"), minRankedPosts, direction, topTickerLimit)

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("failed to query ranked tickers", err)
	}
	defer rows.Close()

	result := make([]models.TickerScore, 0)
	for rows.Next() {
		var score models.TickerScore
		var avg float64
		if err := rows.Scan(&score.Ticker, &avg, &score.PostCount); err != nil {
			return nil, apperrors.Storage("failed to scan ticker score", err)
		}
		score.AvgSentiment = round2(avg)
		result = append(result, score)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to iterate ticker scores", err)
	}

	return result, nil
}

func (e *Engine) sentimentBySector(ctx context.Context, dates filter.Spec, pulse *models.MarketPulse) error {
	clause := dates.Build(0)

	query := fmt.Sprintf(`
		SELECT s.name, p.sentiment_label, COUNT(DISTINCT p.id) AS count
		FROM sectors s
		INNER JOIN post_sectors ps ON s.id = ps.sector_id
		INNER JOIN posts p ON ps.post_id = p.id%s
		GROUP BY s.name, p.sentiment_label
	`, clause.Where())

	rows, err := e.db.QueryContext(ctx, query, clause.Args...)
	if err != nil {
		return apperrors.Storage("failed to query sector sentiment", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sector, label string
		var count int
		if err := rows.Scan(&sector, &label, &count); err != nil {
			return apperrors.Storage("failed to scan sector sentiment", err)
		}

		entry := pulse.SentimentBySector[sector]
		switch label {
		case models.SentimentPositive:
			entry.Positive = count
		case models.SentimentNegative:
			entry.Negative = count
		case models.SentimentNeutral:
			entry.Neutral = count
		}
		pulse.SentimentBySector[sector] = entry
	}

	return rows.Err()
}

func (e *Engine) overallSentiment(ctx context.Context, dates filter.Spec, pulse *models.MarketPulse) error {
	clause := dates.Build(0)

	query := fmt.Sprintf(`
		SELECT p.sentiment_label, COUNT(*) AS count, AVG(p.sentiment_score) AS avg_score
		FROM posts p%s
		GROUP BY p.sentiment_label
	`, clause.Where())

	rows, err := e.db.QueryContext(ctx, query, clause.Args...)
	if err != nil {
		return apperrors.Storage("failed to query overall sentiment", err)
	}
	defer rows.Close()

	var total int
	weighted := decimal.Zero

	for rows.Next() {
		var label string
		var count int
		var avg float64
		if err := rows.Scan(&label, &count, &avg); err != nil {
			return apperrors.Storage("failed to scan overall sentiment", err)
		}

		pulse.OverallSentiment.Distribution[label] = count
		total += count
		weighted = weighted.Add(decimal.NewFromFloat(avg).Mul(decimal.NewFromInt(int64(count))))
	}

	if err := rows.Err(); err != nil {
		return err
	}

	if total > 0 {
		avg := weighted.Div(decimal.NewFromInt(int64(total))).Round(2)
		pulse.OverallSentiment.AverageScore = avg.InexactFloat64()
	}

	return nil
}

// SentimentByTicker returns the per-ticker label counts and per-label average
// scores over an optional date range. A nil or empty ticker list means all
// tickers with at least one linked post in range.
func (e *Engine) SentimentByTicker(ctx context.Context, tickers []string, spec filter.Spec) ([]models.TickerSentiment, error) {
	offset := 0
	var args []interface{}
	var extra []string

	if len(tickers) > 0 {
		offset = 1
		args = append(args, pq.Array(tickers))
		extra = append(extra, "t.symbol = ANY($1)")
	}

	clause := spec.DateOnly().Build(offset)
	args = append(args, clause.Args...)

	query := fmt.Sprintf(`
		SELECT t.symbol, p.sentiment_label, COUNT(*) AS count, AVG(p.sentiment_score) AS avg_score
		FROM tickers t
		INNER JOIN post_tickers pt ON t.id = pt.ticker_id
		INNER JOIN posts p ON pt.post_id = p.id%s
		GROUP BY t.symbol, p.sentiment_label
		ORDER BY t.symbol
	`, clause.Where(extra...))

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("failed to query ticker sentiment", err)
	}
	defer rows.Close()

	result := make([]models.TickerSentiment, 0)
	index := make(map[string]int)

	for rows.Next() {
		var symbol, label string
		var count int
		var avg float64
		if err := rows.Scan(&symbol, &label, &count, &avg); err != nil {
			return nil, apperrors.Storage("failed to scan ticker sentiment", err)
		}

		i, ok := index[symbol]
		if !ok {
			result = append(result, models.TickerSentiment{
				Ticker:     symbol,
				Sentiments: zeroDistribution(),
				AvgScores:  make(map[string]float64),
			})
			i = len(result) - 1
			index[symbol] = i
		}

		result[i].Sentiments[label] = count
		result[i].AvgScores[label] = round2(avg)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to iterate ticker sentiment", err)
	}

	return result, nil
}

func zeroDistribution() map[string]int {
	return map[string]int{
		models.SentimentPositive: 0,
		models.SentimentNeutral:  0,
		models.SentimentNegative: 0,
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
