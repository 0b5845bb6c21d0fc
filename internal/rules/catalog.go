package rules

import (
	"fmt"
	"strings"
	"time"

	"prayer_bot/internal/content"
	"prayer_bot/internal/model"
)

// DefaultCatalog returns the deployment's rule catalog: exact-time alerts
// for the five prayers, ten-minute reminders before each, the daily hadith,
// istighfar prompts three times a day, and hourly-paced Friday salawats.
func DefaultCatalog() []Rule {
	catalog := make([]Rule, 0, 16)

	for _, event := range model.PrayerEvents {
		event := event
		catalog = append(catalog,
			Rule{
				ID:      "prayer." + strings.ToLower(event),
				Kind:    KindOnEvent,
				Event:   event,
				Message: func(at time.Time) string { return prayerAlert(event, at) },
			},
			Rule{
				ID:            "reminder." + strings.ToLower(event),
				Kind:          KindBeforeEvent,
				Event:         event,
				OffsetMinutes: 10,
				Message: func(at time.Time) string {
					return fmt.Sprintf("Через 10 минут наступает время намаза %s. Подготовьтесь к молитве.",
						content.PrayerName(event))
				},
			},
		)
	}

	catalog = append(catalog, Rule{
		ID:   "hadith.daily",
		Kind: KindDailyClock,
		At:   "09:00",
		Message: func(at time.Time) string {
			return fmt.Sprintf("Хадис дня:\n\n%s\n\nДа примет Аллах наши благие дела!", content.HadithOfDay(at))
		},
	})

	for _, c := range []struct{ id, at string }{
		{"istighfar.morning", "07:00"},
		{"istighfar.noon", "13:00"},
		{"istighfar.evening", "20:00"},
	} {
		catalog = append(catalog, Rule{
			ID:   c.id,
			Kind: KindDailyClock,
			At:   c.at,
			Message: func(at time.Time) string {
				return fmt.Sprintf("Напоминание об истигфаре.\n\nПроизнесите: %s\n\nИстигфар — это ключ к прощению и милости Аллаха!",
					content.IstighfarOfDay(at))
			},
		})
	}

	catalog = append(catalog, Rule{
		ID:              "salawat.friday",
		Kind:            KindWeeklyWindow,
		Weekday:         time.Friday,
		From:            "10:00",
		To:              "18:00",
		IntervalMinutes: 120,
		Message: func(at time.Time) string {
			return fmt.Sprintf("Пятничный салават!\n\n%s\n\nОтправляйте салават Пророку как можно больше сегодня.", content.Salawat)
		},
	})

	return catalog
}

func prayerAlert(event string, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Время намаза %s — %s.\nВставайте на молитву!", content.PrayerName(event), at.Format("15:04"))
	switch event {
	case model.EventFajr:
		b.WriteString("\n\nНе забудьте утренние азкары.")
	case model.EventMaghrib:
		b.WriteString("\n\nНе забудьте вечерние азкары.")
	}
	return b.String()
}
