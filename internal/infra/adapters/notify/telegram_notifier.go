package notify

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"video-insight/internal/domain/model"
	"video-insight/internal/domain/ports/adapter"
)

var _ adapter.CompletionNotifier = (*TelegramNotifier)(nil)

// TelegramNotifier posts completion summaries to an operations channel.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" {
		return nil, errors.New("telegram token empty")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id empty")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (t *TelegramNotifier) NotifyCompleted(ctx context.Context, job *model.AnalysisJob) error {
	text := fmt.Sprintf("Analysis %s completed for user %s", job.ID, job.UserID)
	if job.Results != nil {
		text += fmt.Sprintf("\nDuration: %.1fs, shots: %d, labels: %d",
			job.Results.Technical.DurationSeconds,
			job.Results.Technical.ShotCount,
			len(job.Results.Technical.Labels))
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
