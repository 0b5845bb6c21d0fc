package bot

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFormatDailyTimes(t *testing.T) {
	day := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	got := FormatDailyTimes("Казань", kazanSchedule(), day)
	want := `Времена намазов
Казань, 28.08.2026

Фаджр — 03:12
Восход — 05:02
Зухр — 12:00
Аср — 15:47
Магриб — 19:47
Иша — 21:30`

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormatDailyTimes mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDailyTimesSkipsMissingEvents(t *testing.T) {
	day := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	sched := kazanSchedule()
	delete(sched.Times, "Sunrise")

	got := FormatDailyTimes("Казань", sched, day)
	want := `Времена намазов
Казань, 28.08.2026

Фаджр — 03:12
Зухр — 12:00
Аср — 15:47
Магриб — 19:47
Иша — 21:30`

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormatDailyTimes mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCityInput(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Казань", want: "Казань"},
		{in: "  нижний   новгород ", want: "нижний новгород"},
		{in: "Rostov-on-Don", want: "Rostov-on-Don"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "12345 !!!", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeCityInput(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeCityInput(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeCityInput(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeCityInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
