// Package hdate implements the wall-clock date/duration model shared by the
// daemon and client: a naive timestamp tagged UTC-or-Local (SimpleDate), a
// calendar-aware interval (Duration), and the humanized-elapsed renderer the
// scheduler uses for notification text.
package hdate

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Zone tags a SimpleDate as having been constructed in UTC or in the host's
// local timezone. Arithmetic and the field getters stay within the tagged
// zone; String always renders the instant in UTC.
type Zone int

const (
	UTC Zone = iota
	Local
)

// ErrOutOfRange is returned by the field setters when the requested
// year/month/day/hour/minute/second combination does not exist
// (e.g. February 30th, minute 61).
var ErrOutOfRange = errors.New("hdate: value out of range")

// minYear/maxYear bound saturating arithmetic: extreme results clamp to
// year 0 or year math.MaxInt32 instead of overflowing.
const (
	minYear = 0
	maxYear = math.MaxInt32
)

// SimpleDate is a naive wall-clock timestamp plus a Zone tag.
type SimpleDate struct {
	t    time.Time
	zone Zone
}

// NowUTC returns the current instant tagged UTC.
func NowUTC() SimpleDate { return SimpleDate{t: time.Now().UTC(), zone: UTC} }

// NowLocal returns the current instant tagged Local.
func NowLocal() SimpleDate { return SimpleDate{t: time.Now().Local(), zone: Local} }

// FromTime wraps an existing time.Time, tagging it with zone. The time is
// normalized into UTC or the host's Local location to match the tag.
func FromTime(t time.Time, zone Zone) SimpleDate {
	if zone == UTC {
		return SimpleDate{t: t.UTC(), zone: UTC}
	}
	return SimpleDate{t: t.Local(), zone: Local}
}

// ParseRFC3339 parses an RFC 3339 timestamp. The parsed date is tagged UTC;
// callers that need Local should call .Local() afterwards.
func ParseRFC3339(s string) (SimpleDate, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return SimpleDate{}, fmt.Errorf("hdate: parse rfc3339 %q: %w", s, err)
	}
	return SimpleDate{t: t.UTC(), zone: UTC}, nil
}

// ParseStr parses s using a Go reference-time layout, tagging the result
// Local (the layout is assumed to describe a wall-clock reading with no
// explicit offset).
func ParseStr(layout, s string) (SimpleDate, error) {
	t, err := time.ParseInLocation(layout, s, time.Local)
	if err != nil {
		return SimpleDate{}, fmt.Errorf("hdate: parse %q with layout %q: %w", s, layout, err)
	}
	return SimpleDate{t: t, zone: Local}, nil
}

// Time returns the underlying time.Time.
func (d SimpleDate) Time() time.Time { return d.t }

// Zone reports which tag this date carries.
func (d SimpleDate) Zone() Zone { return d.zone }

// Local returns a copy of d converted into the Local zone tag.
func (d SimpleDate) Local() SimpleDate { return SimpleDate{t: d.t.Local(), zone: Local} }

// UTC returns a copy of d converted into the UTC zone tag.
func (d SimpleDate) UTC() SimpleDate { return SimpleDate{t: d.t.UTC(), zone: UTC} }

// String renders d as RFC 3339 with seconds precision. The wire format
// always normalizes to UTC with a trailing "Z".
func (d SimpleDate) String() string {
	return d.t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}

// MarshalJSON implements json.Marshaler using the wire String() form.
func (d SimpleDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting any RFC 3339 string.
func (d *SimpleDate) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("hdate: invalid JSON date literal %q", b)
	}
	parsed, err := ParseRFC3339(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Equal reports whether d and o denote the same instant, ignoring zone tag.
func (d SimpleDate) Equal(o SimpleDate) bool { return d.t.Equal(o.t) }

// Before reports whether d denotes an instant strictly before o.
func (d SimpleDate) Before(o SimpleDate) bool { return d.t.Before(o.t) }

// After reports whether d denotes an instant strictly after o.
func (d SimpleDate) After(o SimpleDate) bool { return d.t.After(o.t) }

// Year, Month, Day, Hour, Minute, Second are the naive field getters.
func (d SimpleDate) Year() int             { return d.t.Year() }
func (d SimpleDate) Month() time.Month     { return d.t.Month() }
func (d SimpleDate) Day() int              { return d.t.Day() }
func (d SimpleDate) Hour() int             { return d.t.Hour() }
func (d SimpleDate) Minute() int           { return d.t.Minute() }
func (d SimpleDate) Second() int           { return d.t.Second() }
func (d SimpleDate) Weekday() time.Weekday { return d.t.Weekday() }

func (d SimpleDate) location() *time.Location {
	if d.zone == UTC {
		return time.UTC
	}
	return time.Local
}

func (d SimpleDate) rebuild(year int, month time.Month, day, hour, min, sec int) (SimpleDate, error) {
	year = clampYear(year)
	loc := d.location()
	candidate := time.Date(year, month, day, hour, min, sec, 0, loc)
	// time.Date normalizes out-of-range fields instead of failing (e.g. day=32
	// rolls to the next month); detect that and report ErrOutOfRange instead.
	if candidate.Year() != year || candidate.Month() != month || candidate.Day() != day ||
		candidate.Hour() != hour || candidate.Minute() != min || candidate.Second() != sec {
		return SimpleDate{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d:%02d", ErrOutOfRange, year, month, day, hour, min, sec)
	}
	return SimpleDate{t: candidate, zone: d.zone}, nil
}

// SetYear returns a copy of d with the year field replaced.
func (d SimpleDate) SetYear(year int) (SimpleDate, error) {
	return d.rebuild(year, d.t.Month(), d.t.Day(), d.t.Hour(), d.t.Minute(), d.t.Second())
}

// SetMonth returns a copy of d with the month field replaced (1-12).
func (d SimpleDate) SetMonth(month int) (SimpleDate, error) {
	return d.rebuild(d.t.Year(), time.Month(month), d.t.Day(), d.t.Hour(), d.t.Minute(), d.t.Second())
}

// SetDay returns a copy of d with the day-of-month field replaced.
func (d SimpleDate) SetDay(day int) (SimpleDate, error) {
	return d.rebuild(d.t.Year(), d.t.Month(), day, d.t.Hour(), d.t.Minute(), d.t.Second())
}

// SetHour returns a copy of d with the hour field replaced.
func (d SimpleDate) SetHour(hour int) (SimpleDate, error) {
	return d.rebuild(d.t.Year(), d.t.Month(), d.t.Day(), hour, d.t.Minute(), d.t.Second())
}

// SetMinute returns a copy of d with the minute field replaced.
func (d SimpleDate) SetMinute(minute int) (SimpleDate, error) {
	return d.rebuild(d.t.Year(), d.t.Month(), d.t.Day(), d.t.Hour(), minute, d.t.Second())
}

// SetSecond returns a copy of d with the second field replaced.
func (d SimpleDate) SetSecond(second int) (SimpleDate, error) {
	return d.rebuild(d.t.Year(), d.t.Month(), d.t.Day(), d.t.Hour(), d.t.Minute(), second)
}

// SetYMD replaces the year/month/day fields, keeping the time-of-day.
func (d SimpleDate) SetYMD(year, month, day int) (SimpleDate, error) {
	return d.rebuild(year, time.Month(month), day, d.t.Hour(), d.t.Minute(), d.t.Second())
}

// SetHMS replaces the hour/minute/second fields, keeping the date.
func (d SimpleDate) SetHMS(hour, minute, second int) (SimpleDate, error) {
	return d.rebuild(d.t.Year(), d.t.Month(), d.t.Day(), hour, minute, second)
}

// SetYMDHMS replaces every field at once.
func (d SimpleDate) SetYMDHMS(year, month, day, hour, minute, second int) (SimpleDate, error) {
	return d.rebuild(year, time.Month(month), day, hour, minute, second)
}

// StartOfDay returns the same day at 00:00:00.
func (d SimpleDate) StartOfDay() SimpleDate {
	loc := d.location()
	return SimpleDate{t: time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 0, 0, 0, 0, loc), zone: d.zone}
}

// EndOfDay returns the same day at 23:59:59.
func (d SimpleDate) EndOfDay() SimpleDate {
	loc := d.location()
	return SimpleDate{t: time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 23, 59, 59, 0, loc), zone: d.zone}
}

// Difference returns the non-negative wall-clock duration elapsed between d
// and other, regardless of which comes first.
func (d SimpleDate) Difference(other SimpleDate) time.Duration {
	delta := d.t.Sub(other.t)
	if delta < 0 {
		delta = -delta
	}
	return delta
}

func clampYear(year int) int {
	if year < minYear {
		return minYear
	}
	if year > maxYear {
		return maxYear
	}
	return year
}
