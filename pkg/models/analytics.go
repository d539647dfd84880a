package models

// SentimentCount is one label's share of a filtered corpus
type SentimentCount struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SentimentStats summarizes label distribution over a filtered corpus
type SentimentStats struct {
	Total       int                       `json:"total"`
	BySentiment map[string]SentimentCount `json:"by_sentiment"`
}

// TrendPoint is one time bucket of the sentiment trend series
type TrendPoint struct {
	Bucket   string `json:"date"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
}

// TickerActivity ranks a ticker by discussion volume
type TickerActivity struct {
	Ticker            string  `json:"ticker"`
	PostCount         int     `json:"post_count"`
	AvgSentimentScore float64 `json:"avg_sentiment_score"`
}

// TickerScore ranks a ticker by average sentiment score within one label
type TickerScore struct {
	Ticker       string  `json:"ticker"`
	AvgSentiment float64 `json:"avg_sentiment"`
	PostCount    int     `json:"post_count"`
}

// SectorSentiment is the per-label post count for one sector
type SectorSentiment struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// OverallSentiment is the corpus-wide label distribution with a
// count-weighted average score
type OverallSentiment struct {
	AverageScore float64        `json:"average_score"`
	Distribution map[string]int `json:"distribution"`
}

// MarketPulse is the composite market snapshot
type MarketPulse struct {
	MostDiscussed     []TickerActivity           `json:"most_discussed_stocks"`
	MostPositive      []TickerScore              `json:"most_positive_stocks"`
	MostNegative      []TickerScore              `json:"most_negative_stocks"`
	SentimentBySector map[string]SectorSentiment `json:"sentiment_by_sector"`
	OverallSentiment  OverallSentiment           `json:"overall_market_sentiment"`
}

// TickerSentiment is the per-ticker sentiment breakdown
type TickerSentiment struct {
	Ticker     string             `json:"ticker"`
	Sentiments map[string]int     `json:"sentiments"`
	AvgScores  map[string]float64 `json:"avg_scores"`
}
