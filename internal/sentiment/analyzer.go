// Package sentiment implements a keyword-weight classifier producing the
// three-label distribution the store persists. It stands in for heavier model
// backends behind the same contract: label, winning score, full distribution.
package sentiment

import (
	"strings"

	"github.com/selivandex/finpulse/pkg/models"
)

// Analyzer performs keyword-based sentiment classification
type Analyzer struct {
	positiveWords map[string]float64
	negativeWords map[string]float64
}

// NewAnalyzer creates new sentiment analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positiveWords: buildPositiveWords(),
		negativeWords: buildNegativeWords(),
	}
}

// Classify analyzes text and returns the winning label, its probability mass,
// and the full three-label distribution. The distribution always sums to 1
// and the label is its arg-max.
func (a *Analyzer) Classify(text string) models.Sentiment {
	if strings.TrimSpace(text) == "" {
		return models.Sentiment{
			Label: models.SentimentNeutral,
			Score: 0.34,
			Scores: map[string]float64{
				models.SentimentPositive: 0.33,
				models.SentimentNegative: 0.33,
				models.SentimentNeutral:  0.34,
			},
		}
	}

	var positive, negative float64
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()")

		if weight, ok := a.positiveWords[word]; ok {
			positive += weight
		}
		if weight, ok := a.negativeWords[word]; ok {
			negative += weight
		}
	}

	// Neutral prior of 1.0: unmatched text stays neutral, and strong signals
	// have to outweigh it
	const neutralPrior = 1.0
	total := positive + negative + neutralPrior

	scores := map[string]float64{
		models.SentimentPositive: positive / total,
		models.SentimentNegative: negative / total,
		models.SentimentNeutral:  neutralPrior / total,
	}

	label := models.SentimentNeutral
	for _, candidate := range []string{models.SentimentPositive, models.SentimentNegative} {
		if scores[candidate] > scores[label] {
			label = candidate
		}
	}

	return models.Sentiment{
		Label:  label,
		Score:  scores[label],
		Scores: scores,
	}
}

// buildPositiveWords returns positive keywords for equities
func buildPositiveWords() map[string]float64 {
	return map[string]float64{
		"bullish":     1.0,
		"bull":        0.9,
		"rally":       0.9,
		"surge":       0.8,
		"soar":        0.8,
		"breakout":    0.7,
		"moon":        0.7,
		"rocket":      0.7,
		"beat":        0.7,
		"beats":       0.7,
		"upgrade":     0.7,
		"upgraded":    0.7,
		"outperform":  0.7,
		"gain":        0.6,
		"gains":       0.6,
		"profit":      0.6,
		"profits":     0.6,
		"win":         0.6,
		"green":       0.6,
		"buy":         0.6,
		"calls":       0.5,
		"undervalued": 0.6,
		"growth":      0.5,
		"strong":      0.5,
		"up":          0.5,
		"rise":        0.5,
		"record":      0.5,
		"dividend":    0.4,
		"buyback":     0.5,
		"positive":    0.5,
		"optimistic":  0.5,
	}
}

// buildNegativeWords returns negative keywords for equities
func buildNegativeWords() map[string]float64 {
	return map[string]float64{
		"bearish":    1.0,
		"bear":       0.9,
		"crash":      1.0,
		"dump":       0.9,
		"plunge":     0.8,
		"tank":       0.8,
		"tanks":      0.8,
		"collapse":   0.9,
		"miss":       0.7,
		"misses":     0.7,
		"downgrade":  0.7,
		"downgraded": 0.7,
		"sell":       0.6,
		"puts":       0.5,
		"short":      0.5,
		"overvalued": 0.6,
		"bubble":     0.6,
		"loss":       0.7,
		"losses":     0.7,
		"red":        0.6,
		"fall":       0.6,
		"drop":       0.6,
		"decline":    0.6,
		"weak":       0.5,
		"down":       0.5,
		"recession":  0.8,
		"bankruptcy": 1.0,
		"bankrupt":   1.0,
		"lawsuit":    0.6,
		"fraud":      0.9,
		"negative":   0.5,
		"fear":       0.6,
		"panic":      0.8,
	}
}
