// Package parser turns human date expressions — "In 10 minutes", "Next
// Tuesday at 05:00", "On the 5th of May" — into absolute dates, resolved
// against a caller-supplied start date.
//
// The grammar is a table of regexp matchers paired with small resolver
// functions, one per sentence family. The families are fixed and few, so a
// grammar library would add more surface than it saves.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kalo-labs/hkb/internal/hdate"
)

// ErrUnknownRule is returned when the grammar recognizes a leading keyword
// (IN/AT/ON/NEXT/TOMORROW) but the remainder cannot be resolved to a rule.
var ErrUnknownRule = errors.New("parser: unknown rule")

// ParseError reports that input did not match any grammar rule.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: could not parse %q", e.Input)
}

var (
	reIn = regexp.MustCompile(`(?i)^in\s+(\d+)\s+(minute|hour|day|week|month|year)s?\s*$`)

	reAt = regexp.MustCompile(`(?i)^at\s+(\d{1,2}):(\d{2})\s*(?:on\s+(.+))?$`)

	reOn = regexp.MustCompile(`(?i)^on\s+(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+of\s+([a-zA-Z]+)\s*(?:at\s+(\d{1,2}):(\d{2}))?$`)

	// reOnClause matches the bare "[the] <ordinal> of <month>" fragment used
	// both standalone (reOn) and as the trailing clause of an AT sentence.
	reOnClause = regexp.MustCompile(`(?i)^(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+of\s+([a-zA-Z]+)\s*$`)

	reNext = regexp.MustCompile(`(?i)^next\s+([a-zA-Z]+)\s*(?:at\s+(\d{1,2}):(\d{2}))?$`)

	reTomorrow = regexp.MustCompile(`(?i)^tomorrow\s*(?:at\s+(\d{1,2}):(\d{2}))?$`)
)

var unitTable = map[string]hdate.Unit{
	"minute": hdate.Minute,
	"hour":   hdate.Hour,
	"day":    hdate.Day,
	"week":   hdate.Week,
	"month":  hdate.Month,
	"year":   hdate.Year,
}

var monthTable = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var weekdayTable = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// Parse resolves input against startDate. All five sentence families are
// case-insensitive.
func Parse(input string, startDate hdate.SimpleDate) (hdate.SimpleDate, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return hdate.SimpleDate{}, &ParseError{Input: input}
	}

	switch {
	case reIn.MatchString(trimmed):
		return parseIn(trimmed, startDate)
	case reAt.MatchString(trimmed):
		return parseAt(trimmed, startDate)
	case reOn.MatchString(trimmed):
		return parseOn(trimmed, startDate)
	case reNext.MatchString(trimmed):
		return parseNext(trimmed, startDate)
	case reTomorrow.MatchString(trimmed):
		return parseTomorrow(trimmed, startDate)
	default:
		return hdate.SimpleDate{}, &ParseError{Input: input}
	}
}

func parseIn(s string, start hdate.SimpleDate) (hdate.SimpleDate, error) {
	m := reIn.FindStringSubmatch(s)
	if m == nil {
		return hdate.SimpleDate{}, fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return hdate.SimpleDate{}, &ParseError{Input: s}
	}
	unit, ok := unitTable[strings.ToLower(m[2])]
	if !ok {
		return hdate.SimpleDate{}, fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}
	return start.Add(hdate.Duration{Unit: unit, N: n}), nil
}

func parseAt(s string, start hdate.SimpleDate) (hdate.SimpleDate, error) {
	m := reAt.FindStringSubmatch(s)
	if m == nil {
		return hdate.SimpleDate{}, fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}
	hour, minute, err := parseHHMM(m[1], m[2])
	if err != nil {
		return hdate.SimpleDate{}, &ParseError{Input: s}
	}

	base := start
	if onClause := strings.TrimSpace(m[3]); onClause != "" {
		day, month, ok := resolveOnClauseFragment(onClause)
		if !ok {
			return hdate.SimpleDate{}, &ParseError{Input: s}
		}
		base, err = resolveYearForMonthDay(start, month, day)
		if err != nil {
			return hdate.SimpleDate{}, err
		}
	}

	return base.SetHMS(hour, minute, 0)
}

func parseOn(s string, start hdate.SimpleDate) (hdate.SimpleDate, error) {
	m := reOn.FindStringSubmatch(s)
	if m == nil {
		return hdate.SimpleDate{}, fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return hdate.SimpleDate{}, &ParseError{Input: s}
	}
	month, ok := monthTable[strings.ToLower(m[2])]
	if !ok {
		return hdate.SimpleDate{}, fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}

	result, err := resolveYearForMonthDay(start, month, day)
	if err != nil {
		return hdate.SimpleDate{}, err
	}

	if m[3] != "" && m[4] != "" {
		hour, minute, err := parseHHMM(m[3], m[4])
		if err != nil {
			return hdate.SimpleDate{}, &ParseError{Input: s}
		}
		return result.SetHMS(hour, minute, 0)
	}
	// Hour/minute default to those of the start date.
	return result.SetHMS(start.Hour(), start.Minute(), 0)
}

func parseNext(s string, start hdate.SimpleDate) (hdate.SimpleDate, error) {
	m := reNext.FindStringSubmatch(s)
	if m == nil {
		return hdate.SimpleDate{}, fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}
	word := strings.ToLower(m[1])

	var base hdate.SimpleDate
	switch word {
	case "week":
		base = start.Add(hdate.Duration{Unit: hdate.Day, N: 7})
	case "month":
		base = start.Add(hdate.Duration{Unit: hdate.Month, N: 1})
	default:
		wd, ok := weekdayTable[word]
		if !ok {
			return hdate.SimpleDate{}, fmt.Errorf("%w: %q", ErrUnknownRule, s)
		}
		offset := int(wd) - int(start.Weekday())
		if offset <= 0 {
			// Same weekday in the following week; a 0-day offset becomes 7.
			offset += 7
		}
		base = start.Add(hdate.Duration{Unit: hdate.Day, N: offset})
	}

	if m[2] != "" && m[3] != "" {
		hour, minute, err := parseHHMM(m[2], m[3])
		if err != nil {
			return hdate.SimpleDate{}, &ParseError{Input: s}
		}
		return base.SetHMS(hour, minute, 0)
	}
	return base, nil
}

func parseTomorrow(s string, start hdate.SimpleDate) (hdate.SimpleDate, error) {
	m := reTomorrow.FindStringSubmatch(s)
	if m == nil {
		return hdate.SimpleDate{}, fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}
	base := start.Add(hdate.Duration{Unit: hdate.Day, N: 1})
	if m[1] != "" && m[2] != "" {
		hour, minute, err := parseHHMM(m[1], m[2])
		if err != nil {
			return hdate.SimpleDate{}, &ParseError{Input: s}
		}
		return base.SetHMS(hour, minute, 0)
	}
	return base, nil
}

// resolveOnClauseFragment parses "[the] <ordinal> of <month>" without any
// trailing AT clause, used when an ON fragment trails an AT sentence.
func resolveOnClauseFragment(fragment string) (day int, month time.Month, ok bool) {
	m := reOnClause.FindStringSubmatch(strings.TrimSpace(fragment))
	if m == nil {
		return 0, 0, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	month, found := monthTable[strings.ToLower(m[2])]
	if !found {
		return 0, 0, false
	}
	return day, month, true
}

// resolveYearForMonthDay picks the year of start; if that date has already
// passed relative to start, rolls the year forward by one.
func resolveYearForMonthDay(start hdate.SimpleDate, month time.Month, day int) (hdate.SimpleDate, error) {
	candidate, err := start.SetYMD(start.Year(), int(month), day)
	if err != nil {
		return hdate.SimpleDate{}, &ParseError{Input: fmt.Sprintf("%d of %s", day, month)}
	}
	if candidate.StartOfDay().Before(start.StartOfDay()) {
		candidate, err = candidate.SetYear(start.Year() + 1)
		if err != nil {
			return hdate.SimpleDate{}, err
		}
	}
	return candidate, nil
}

func parseHHMM(hStr, mStr string) (hour, minute int, err error) {
	hour, err = strconv.Atoi(hStr)
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(mStr)
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("hh:mm out of range: %02d:%02d", hour, minute)
	}
	return hour, minute, nil
}
