package telegram

import (
	"strings"
	"testing"

	"github.com/selivandex/finpulse/pkg/models"
)

func pulseWithDistribution(positive, neutral, negative int) *models.MarketPulse {
	return &models.MarketPulse{
		MostDiscussed:     []models.TickerActivity{{Ticker: "AAPL", PostCount: positive + neutral + negative, AvgSentimentScore: 0.6}},
		MostPositive:      []models.TickerScore{},
		MostNegative:      []models.TickerScore{},
		SentimentBySector: map[string]models.SectorSentiment{},
		OverallSentiment: models.OverallSentiment{
			AverageScore: 0.6,
			Distribution: map[string]int{
				models.SentimentPositive: positive,
				models.SentimentNeutral:  neutral,
				models.SentimentNegative: negative,
			},
		},
	}
}

func TestFormatPulse_MoodFromDistribution(t *testing.T) {
	cases := []struct {
		name  string
		pulse *models.MarketPulse
		emoji string
	}{
		{"negative dominates", pulseWithDistribution(1, 2, 5), "📉"},
		{"positive dominates", pulseWithDistribution(5, 2, 1), "📈"},
		{"balanced", pulseWithDistribution(3, 1, 3), "😐"},
		{"empty corpus", pulseWithDistribution(0, 0, 0), "😐"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := formatPulse(tc.pulse)
			if !strings.Contains(msg, tc.emoji) {
				t.Errorf("expected digest to carry %s, got:\n%s", tc.emoji, msg)
			}
		})
	}
}

func TestFormatPulse_Sections(t *testing.T) {
	pulse := pulseWithDistribution(2, 1, 1)
	pulse.MostNegative = []models.TickerScore{{Ticker: "TSLA", AvgSentiment: 0.72, PostCount: 4}}
	pulse.SentimentBySector = map[string]models.SectorSentiment{
		"Technology": {Positive: 2, Neutral: 1, Negative: 1},
	}

	msg := formatPulse(pulse)

	for _, want := range []string{"Market Pulse", "AAPL", "TSLA", "0.72", "Technology"} {
		if !strings.Contains(msg, want) {
			t.Errorf("digest should mention %q, got:\n%s", want, msg)
		}
	}
}
