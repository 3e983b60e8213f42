package hdate

import (
	"fmt"
	"time"
)

// Unit tags the six kinds of interval Duration can express.
type Unit int

const (
	Minute Unit = iota
	Hour
	Day
	Week
	Month
	Year
)

func (u Unit) String() string {
	switch u {
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Duration is a tagged interval: N units of Unit. Minute/Hour/Day/Week are
// linear in seconds; Month/Year respect calendar boundaries.
type Duration struct {
	Unit Unit
	N    int
}

// Add returns d + dur. Add never fails; extreme results saturate to year 0
// or year math.MaxInt32.
func (d SimpleDate) Add(dur Duration) SimpleDate {
	switch dur.Unit {
	case Minute:
		return d.addSeconds(int64(dur.N) * 60)
	case Hour:
		return d.addSeconds(int64(dur.N) * 3600)
	case Day:
		return d.addSeconds(int64(dur.N) * 86400)
	case Week:
		return d.addSeconds(int64(dur.N) * 7 * 86400)
	case Month:
		return d.addMonths(dur.N)
	case Year:
		return d.addMonths(dur.N * 12)
	default:
		return d
	}
}

// Sub returns d - dur. Like Add, it never fails and saturates at the year
// boundaries.
func (d SimpleDate) Sub(dur Duration) SimpleDate {
	negated := Duration{Unit: dur.Unit, N: -dur.N}
	return d.Add(negated)
}

func (d SimpleDate) addSeconds(secs int64) SimpleDate {
	loc := d.location()
	result := d.t.Add(time.Duration(secs) * time.Second)
	if result.Year() < minYear {
		return SimpleDate{t: time.Date(minYear, 1, 1, 0, 0, 0, 0, loc), zone: d.zone}
	}
	if result.Year() > maxYear {
		return SimpleDate{t: time.Date(maxYear, 12, 31, 23, 59, 59, 0, loc), zone: d.zone}
	}
	return SimpleDate{t: result, zone: d.zone}
}

// addMonths adds n months to d, clamping the day-of-month to the last valid
// day of the resulting month (e.g. Jan 31 + 1 month -> Feb 28/29), and
// wrapping the month field into [1,12] by carrying into the year: adding 13
// months moves the year forward by one and the month forward by one
// (Jan 2024 + 13 months -> Feb 2025).
func (d SimpleDate) addMonths(n int) SimpleDate {
	loc := d.location()
	totalMonths := int(d.t.Month()) - 1 + n
	year := d.t.Year() + totalMonths/12
	month := totalMonths % 12
	if month < 0 {
		month += 12
		year--
	}
	if year < minYear {
		year, month = minYear, 0
	}
	if year > maxYear {
		year, month = maxYear, 11
	}
	targetMonth := time.Month(month + 1)

	day := d.t.Day()
	if lastDay := daysInMonth(year, targetMonth); day > lastDay {
		day = lastDay
	}

	result := time.Date(year, targetMonth, day, d.t.Hour(), d.t.Minute(), d.t.Second(), 0, loc)
	return SimpleDate{t: result, zone: d.zone}
}

func daysInMonth(year int, month time.Month) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	lastOfThis := firstOfNext.AddDate(0, 0, -1)
	return lastOfThis.Day()
}

// Humanize renders a non-negative wall duration as a space-separated list of
// the largest non-zero of {days, hours, minutes}, singular under two,
// plural otherwise. Durations under 60 seconds render as "".
func Humanize(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	totalSeconds := int64(d / time.Second)
	if totalSeconds < 60 {
		return ""
	}

	days := totalSeconds / 86400
	hours := (totalSeconds % 86400) / 3600
	minutes := (totalSeconds % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, pluralize(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, pluralize(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, pluralize(minutes, "minute"))
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func pluralize(n int64, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
