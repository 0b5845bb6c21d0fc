package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"prayer_bot/internal/delivery"
)

// Notifier implements delivery.Sender over the Telegram API. All outbound
// notifications flow through one limiter to stay under Telegram's
// ~30 messages/second bot limit with headroom.
type Notifier struct {
	api     telegramAPI
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewNotifier creates a Notifier over an existing API connection.
func NewNotifier(api telegramAPI, log *slog.Logger) *Notifier {
	return &Notifier{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(20), 5),
		log:     log,
	}
}

// Send delivers one message, classifying failures into the delivery taxonomy.
func (n *Notifier) Send(ctx context.Context, chatID int64, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: limiter: %v", delivery.ErrTransient, err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps a Telegram API error to the delivery error taxonomy.
func classify(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 403:
			return fmt.Errorf("%w: %v", delivery.ErrUnreachable, err)
		case apiErr.Code == 429:
			return fmt.Errorf("%w: %v", delivery.ErrRateLimited, err)
		}
		msg := strings.ToLower(apiErr.Message)
		for _, marker := range []string{"blocked", "chat not found", "deactivated"} {
			if strings.Contains(msg, marker) {
				return fmt.Errorf("%w: %v", delivery.ErrUnreachable, err)
			}
		}
	}
	return fmt.Errorf("%w: %v", delivery.ErrTransient, err)
}
