package hdate

import (
	"testing"
	"time"
)

func TestAdd_Linear(t *testing.T) {
	start := FromTime(time.Date(2024, 4, 14, 8, 0, 0, 0, time.UTC), UTC)

	tests := []struct {
		name string
		dur  Duration
		want string
	}{
		{"10 minutes", Duration{Minute, 10}, "2024-04-14T08:10:00Z"},
		{"2 hours", Duration{Hour, 2}, "2024-04-14T10:00:00Z"},
		{"1 day", Duration{Day, 1}, "2024-04-15T08:00:00Z"},
		{"1 week", Duration{Week, 1}, "2024-04-21T08:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := start.Add(tt.dur).String(); got != tt.want {
				t.Errorf("Add(%v) = %s, want %s", tt.dur, got, tt.want)
			}
		})
	}
}

func TestAdd_MonthClampsToLastValidDay(t *testing.T) {
	jan31 := FromTime(time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC), UTC)

	got := jan31.Add(Duration{Month, 1})
	want := "2024-02-29T09:00:00Z" // 2024 is a leap year; Feb has 29 days
	if got.String() != want {
		t.Errorf("Jan 31 + 1 month = %s, want %s (clamped)", got.String(), want)
	}
}

func TestAdd_MonthWrapsYearOnThirteenMonths(t *testing.T) {
	start := FromTime(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), UTC)

	got := start.Add(Duration{Month, 13})
	if got.Year() != 2025 || got.Month() != time.February {
		t.Errorf("start + 13 months = %s, want 2025-02", got.String())
	}
}

func TestAdd_SaturatesAtYearBounds(t *testing.T) {
	start := FromTime(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), UTC)

	got := start.Sub(Duration{Year, 5})
	if got.Year() != minYear {
		t.Errorf("saturated sub got year %d, want %d", got.Year(), minYear)
	}
}

// Adding any positive duration must move String() forward lexicographically.
func TestAdd_Monotonic(t *testing.T) {
	cases := []Duration{
		{Minute, 1}, {Hour, 3}, {Day, 2}, {Week, 1}, {Month, 2}, {Year, 1},
	}
	d := FromTime(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), UTC)
	for _, dur := range cases {
		got := d.Add(dur)
		if got.String() <= d.String() {
			t.Errorf("Add(%v).String() = %s, want > %s", dur, got.String(), d.String())
		}
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, ""},
		{"30 seconds", 30 * time.Second, ""},
		{"exactly 1 minute", 60 * time.Second, "1 minute"},
		{"2 minutes", 2 * time.Minute, "2 minutes"},
		{"days hours minutes", 2*24*time.Hour + 2*time.Hour + 2*time.Minute + 5*time.Second, "2 days 2 hours 2 minutes"},
		{"1 day only", 24 * time.Hour, "1 day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Humanize(tt.d); got != tt.want {
				t.Errorf("Humanize(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
