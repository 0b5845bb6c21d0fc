package bot

import (
	"context"
	"fmt"
	"time"

	"prayer_bot/internal/content"
	"prayer_bot/internal/model"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Ассаламу алейкум!

Я бот «Благодатный дождь» — помощник в поклонении.

Что я умею:
• напоминать о временах намазов для вашего города
• присылать хадис дня и напоминания об истигфаре
• показывать расписание по команде /times

Сначала укажите местоположение: напишите название города
(например: Казань) или отправьте геопозицию.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Команды:
/times — времена намазов на сегодня
/hadith — хадис дня
/istighfar — истигфар на сегодня
/pause — приостановить уведомления
/resume — возобновить уведомления

Чтобы сменить город, просто напишите его название
или отправьте геопозицию.`)
}

func (b *Bot) handleTimes(ctx context.Context, chatID int64) {
	user, err := b.store.GetUser(ctx, chatID)
	if err != nil {
		b.reply(chatID, "Сначала укажите город: напишите его название или отправьте геопозицию.")
		return
	}

	sched, err := b.schedules.Get(ctx, user.Location(), time.Now())
	if err != nil {
		b.log.Error("get schedule", "chat_id", chatID, "error", err)
		b.reply(chatID, "Не удалось получить времена намазов. Попробуйте позже.")
		return
	}

	b.reply(chatID, FormatDailyTimes(user.City, sched, time.Now()))
}

func (b *Bot) handleHadith(chatID int64) {
	b.reply(chatID, fmt.Sprintf("Хадис дня:\n\n%s", content.HadithOfDay(time.Now())))
}

func (b *Bot) handleIstighfar(chatID int64) {
	b.reply(chatID, fmt.Sprintf("Истигфар на сегодня:\n\n%s\n\nПроизносите его как можно чаще!",
		content.IstighfarOfDay(time.Now())))
}

func (b *Bot) handlePause(ctx context.Context, chatID int64) {
	if _, err := b.store.GetUser(ctx, chatID); err != nil {
		b.reply(chatID, "Вы ещё не подписаны. Укажите город, чтобы начать.")
		return
	}
	if err := b.store.SetUserActive(ctx, chatID, false); err != nil {
		b.log.Error("pause user", "chat_id", chatID, "error", err)
		b.reply(chatID, "Не удалось приостановить уведомления. Попробуйте позже.")
		return
	}
	b.reply(chatID, "Уведомления приостановлены. Используйте /resume, чтобы возобновить.")
}

func (b *Bot) handleResume(ctx context.Context, chatID int64) {
	if _, err := b.store.GetUser(ctx, chatID); err != nil {
		b.reply(chatID, "Вы ещё не подписаны. Укажите город, чтобы начать.")
		return
	}
	if err := b.store.SetUserActive(ctx, chatID, true); err != nil {
		b.log.Error("resume user", "chat_id", chatID, "error", err)
		b.reply(chatID, "Не удалось возобновить уведомления. Попробуйте позже.")
		return
	}
	b.reply(chatID, "Уведомления возобновлены.")
}

func (b *Bot) handleLocation(ctx context.Context, chatID int64, lat, lon float64) {
	loc, err := b.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		b.log.Error("reverse geocode", "chat_id", chatID, "error", err)
		// Coordinates are still usable for the schedule without a label.
		loc = model.Location{City: fmt.Sprintf("%.4f, %.4f", lat, lon), Lat: lat, Lon: lon}
	}
	b.saveLocation(ctx, chatID, loc)
}

func (b *Bot) handleCityText(ctx context.Context, chatID int64, text string) {
	city, err := NormalizeCityInput(text)
	if err != nil {
		b.reply(chatID, "Не удалось распознать название города. Проверьте его и попробуйте ещё раз.")
		return
	}

	loc, err := b.geocoder.Search(ctx, city)
	if err != nil {
		b.log.Debug("geocode city", "chat_id", chatID, "city", city, "error", err)
		b.reply(chatID, "Не удалось найти такой город. Проверьте название и попробуйте ещё раз.")
		return
	}
	b.saveLocation(ctx, chatID, loc)
}

func (b *Bot) saveLocation(ctx context.Context, chatID int64, loc model.Location) {
	user := model.User{
		ChatID:   chatID,
		City:     loc.City,
		Lat:      loc.Lat,
		Lon:      loc.Lon,
		IsActive: true,
	}
	if err := b.store.UpsertUser(ctx, &user); err != nil {
		b.log.Error("save user", "chat_id", chatID, "error", err)
		b.reply(chatID, "Не удалось сохранить город. Попробуйте позже.")
		return
	}

	sched, err := b.schedules.Get(ctx, loc, time.Now())
	if err != nil {
		b.reply(chatID, fmt.Sprintf(
			"Город сохранён: %s\nРасписание намазов пока недоступно, уведомления начнутся, как только оно появится.",
			loc.City))
		return
	}

	b.reply(chatID, fmt.Sprintf("Город сохранён: %s\nТеперь вы будете получать уведомления о намазах.\n\n%s",
		loc.City, FormatDailyTimes(loc.City, sched, time.Now())))
}
