// Package telegram sends periodic market pulse digests to a configured chat.
package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/finpulse/internal/adapters/config"
	"github.com/selivandex/finpulse/internal/filter"
	"github.com/selivandex/finpulse/pkg/logger"
	"github.com/selivandex/finpulse/pkg/models"
)

// PulseProvider computes the market pulse snapshot for the digest
type PulseProvider interface {
	MarketPulse(ctx context.Context, spec filter.Spec) (*models.MarketPulse, error)
}

// Notifier sends market pulse digests via Telegram
type Notifier struct {
	api *tgbotapi.BotAPI
	cfg *config.TelegramConfig
}

// NewNotifier creates new Telegram notifier. Returns nil (a valid no-op
// notifier) when the digest is disabled.
func NewNotifier(cfg *config.TelegramConfig) (*Notifier, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false

	logger.Info("telegram notifier initialized",
		zap.String("bot_username", bot.Self.UserName),
		zap.Duration("digest_interval", cfg.DigestInterval),
	)

	return &Notifier{
		api: bot,
		cfg: cfg,
	}, nil
}

// SendPulseDigest formats and sends one market pulse snapshot. Safe on a nil
// notifier.
func (n *Notifier) SendPulseDigest(pulse *models.MarketPulse) error {
	if n == nil {
		return nil
	}

	return n.sendMessageMarkdown(n.cfg.ChatID, formatPulse(pulse))
}

// StartDigestLoop computes and sends a digest on the configured interval
// until the context is cancelled. Safe on a nil notifier.
func (n *Notifier) StartDigestLoop(ctx context.Context, provider PulseProvider) {
	if n == nil {
		return
	}

	ticker := time.NewTicker(n.cfg.DigestInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pulse, err := provider.MarketPulse(ctx, filter.Spec{})
			if err != nil {
				logger.Error("failed to compute pulse digest", zap.Error(err))
				continue
			}
			if err := n.SendPulseDigest(pulse); err != nil {
				logger.Error("failed to send pulse digest", zap.Error(err))
			}
		}
	}
}

func formatPulse(pulse *models.MarketPulse) string {
	var b strings.Builder

	b.WriteString("📊 *Market Pulse*\n\n")

	// The average score is a probability mass in [0, 1]; the mood comes from
	// which label dominates the distribution
	dist := pulse.OverallSentiment.Distribution
	overallEmoji := "😐"
	if dist[models.SentimentPositive] > dist[models.SentimentNegative] {
		overallEmoji = "📈"
	} else if dist[models.SentimentNegative] > dist[models.SentimentPositive] {
		overallEmoji = "📉"
	}
	b.WriteString(fmt.Sprintf("%s Overall score: %.2f\n\n", overallEmoji, pulse.OverallSentiment.AverageScore))

	if len(pulse.MostDiscussed) > 0 {
		b.WriteString("🔥 *Most discussed*\n")
		for _, t := range pulse.MostDiscussed {
			b.WriteString(fmt.Sprintf("  %s — %d posts\n", t.Ticker, t.PostCount))
		}
		b.WriteString("\n")
	}

	if len(pulse.MostPositive) > 0 {
		b.WriteString("💚 *Most positive*\n")
		for _, t := range pulse.MostPositive {
			b.WriteString(fmt.Sprintf("  %s — %.2f (%d posts)\n", t.Ticker, t.AvgSentiment, t.PostCount))
		}
		b.WriteString("\n")
	}

	if len(pulse.MostNegative) > 0 {
		b.WriteString("❤️ *Most negative*\n")
		for _, t := range pulse.MostNegative {
			b.WriteString(fmt.Sprintf("  %s — %.2f (%d posts)\n", t.Ticker, t.AvgSentiment, t.PostCount))
		}
		b.WriteString("\n")
	}

	if len(pulse.SentimentBySector) > 0 {
		b.WriteString("🏢 *Sectors*\n")
		sectors := make([]string, 0, len(pulse.SentimentBySector))
		for name := range pulse.SentimentBySector {
			sectors = append(sectors, name)
		}
		sort.Strings(sectors)
		for _, name := range sectors {
			s := pulse.SentimentBySector[name]
			b.WriteString(fmt.Sprintf("  %s — 👍 %d / 😐 %d / 👎 %d\n", name, s.Positive, s.Neutral, s.Negative))
		}
	}

	return b.String()
}

func (n *Notifier) sendMessageMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"

	_, err := n.api.Send(msg)
	if err != nil {
		logger.Error("failed to send telegram message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return err
	}

	return nil
}
