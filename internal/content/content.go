// Package content holds the devotional texts rotated through daily reminders.
package content

import (
	"time"

	"prayer_bot/internal/model"
)

var hadiths = []string{
	"Дела оцениваются по намерениям. (Бухари, Муслим)",
	"Лучшие из вас — лучшие по нраву. (Бухари)",
	"Аллах любит мягкость во всех делах. (Муслим)",
	"Не уверует никто из вас по-настоящему, пока не станет желать брату своему того же, чего желает себе. (Бухари, Муслим)",
	"Мусульманин — это тот, от языка и рук которого безопасны другие мусульмане. (Бухари, Муслим)",
}

var istighfarVariants = []string{
	"АстагфируЛлах аль-Азым аль-Лази ля иляха илля Хув аль-Хаййуль-Каййум ва атубу иляйх",
	"СубханаЛлахи ва бихамдихи, субханаЛлахиль-Азым",
	"Ля иляха илля Анта, субханака инни кунту миназ-залимин",
	"Раббигфирли ва туб алайя, иннака Антат-Таввабур-Рахим",
}

// Salawat is the fixed Friday salawat text.
const Salawat = "اللَّهُمَّ صَلِّ عَلَى مُحَمَّدٍ وَعَلَى آلِ مُحَمَّدٍ"

// HadithOfDay returns the hadith assigned to the given day.
// Selection rotates by day of year so every user sees the same text.
func HadithOfDay(t time.Time) string {
	return hadiths[t.YearDay()%len(hadiths)]
}

// IstighfarOfDay returns the istighfar assigned to the given day.
func IstighfarOfDay(t time.Time) string {
	return istighfarVariants[t.YearDay()%len(istighfarVariants)]
}

var prayerNames = map[string]string{
	model.EventFajr:    "Фаджр",
	model.EventSunrise: "Восход",
	model.EventDhuhr:   "Зухр",
	model.EventAsr:     "Аср",
	model.EventMaghrib: "Магриб",
	model.EventIsha:    "Иша",
}

// PrayerName returns the display name for a schedule event.
// Unknown events are returned as-is.
func PrayerName(event string) string {
	if name, ok := prayerNames[event]; ok {
		return name
	}
	return event
}
