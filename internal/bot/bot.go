// Package bot implements the Telegram transport: the interactive command
// loop and the notification sender used by the evaluator.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"prayer_bot/internal/config"
	"prayer_bot/internal/model"
	"prayer_bot/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// ScheduleSource resolves the daily schedule for a location.
type ScheduleSource interface {
	Get(ctx context.Context, loc model.Location, day time.Time) (model.DailySchedule, error)
}

// Geocoder resolves city names and coordinates.
type Geocoder interface {
	Search(ctx context.Context, city string) (model.Location, error)
	Reverse(ctx context.Context, lat, lon float64) (model.Location, error)
}

// Bot handles user commands and location onboarding.
type Bot struct {
	api       telegramAPI
	store     storage.Storage
	cfg       *config.Config
	schedules ScheduleSource
	geocoder  Geocoder
	log       *slog.Logger
}

// New creates a Bot with the given Telegram token and collaborators.
func New(token string, store storage.Storage, cfg *config.Config, schedules ScheduleSource, geocoder Geocoder, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:       api,
		store:     store,
		cfg:       cfg,
		schedules: schedules,
		geocoder:  geocoder,
		log:       log,
	}, nil
}

// Notifier returns the delivery sink sharing this bot's API connection.
func (b *Bot) Notifier() *Notifier {
	return NewNotifier(b.api, b.log)
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			msg := update.Message
			if msg.From != nil && !b.cfg.IsUserAllowed(msg.From.ID) {
				b.reply(msg.Chat.ID, "Доступ запрещён.")
				continue
			}
			switch {
			case msg.IsCommand():
				b.handleCommand(ctx, msg)
			case msg.Location != nil:
				b.handleLocation(ctx, msg.Chat.ID, msg.Location.Latitude, msg.Location.Longitude)
			case msg.Text != "":
				b.handleCityText(ctx, msg.Chat.ID, msg.Text)
			}
		}
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "times":
		b.handleTimes(ctx, chatID)
	case "hadith":
		b.handleHadith(chatID)
	case "istighfar":
		b.handleIstighfar(chatID)
	case "pause":
		b.handlePause(ctx, chatID)
	case "resume":
		b.handleResume(ctx, chatID)
	default:
		b.reply(chatID, "Неизвестная команда. Используйте /help для списка команд.")
	}
}
