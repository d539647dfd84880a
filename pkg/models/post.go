package models

import "time"

// Sentiment labels assigned by the classifier
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Labels lists all valid sentiment labels
var Labels = []string{SentimentPositive, SentimentNegative, SentimentNeutral}

// ValidLabel reports whether label is a known sentiment label
func ValidLabel(label string) bool {
	for _, l := range Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Sentiment holds one classification result: the winning label, its
// probability mass, and the full label distribution.
// The store does not verify that Label matches the arg-max of Scores;
// that is the classifier's obligation.
type Sentiment struct {
	Label  string             `json:"label"`
	Score  float64            `json:"score"`
	Scores map[string]float64 `json:"scores"`
}

// Post represents one analyzed social media post
type Post struct {
	ID         string    `json:"id" db:"id"`
	SourceID   string    `json:"source_id" db:"source_id"`
	URL        string    `json:"url" db:"url"`
	Subreddit  string    `json:"subreddit" db:"subreddit"`
	Title      string    `json:"title" db:"title"`
	Text       string    `json:"text" db:"text"`
	Author     string    `json:"author" db:"author"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Timezone   string    `json:"timezone" db:"timezone"`
	Sentiment  Sentiment `json:"sentiment"`
	AnalyzedAt time.Time `json:"analyzed_at" db:"analyzed_at"`
}

// RawPost is an unannotated post as produced by an ingestion source
type RawPost struct {
	ID        string    `json:"id"`
	SourceID  string    `json:"source_id"`
	URL       string    `json:"url"`
	Subreddit string    `json:"subreddit"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Timezone  string    `json:"timezone"`
}
