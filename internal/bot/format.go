package bot

import (
	"fmt"
	"strings"
	"time"

	"prayer_bot/internal/content"
	"prayer_bot/internal/model"
)

// FormatDailyTimes renders a schedule as the message shown for /times
// and after a city change. Events without a known time are left out.
func FormatDailyTimes(city string, sched model.DailySchedule, day time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Времена намазов\n%s, %s\n\n", city, day.Format("02.01.2006"))
	for _, ev := range model.ScheduleEvents {
		t, ok := sched.Times[ev]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s — %s\n", content.PrayerName(ev), t)
	}
	return strings.TrimRight(sb.String(), "\n")
}
