package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	compactTimestampPattern = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})$`)
	compactDatePattern      = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	slashDatePattern        = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoDatePattern          = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dashDatePattern         = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
)

// dateCandidate is one interpretation of a date string. whole is the trimmed input,
// datePart the portion before the first space.
type dateCandidate func(whole, datePart string) (time.Time, bool)

// dateCandidates are tried in order; the first one that round-trips wins.
// Day-first slash dates come before month-first, so "03/04/2024" is 3 April.
var dateCandidates = []dateCandidate{
	parseCompactTimestamp,
	parseCompactDate,
	parseDayFirstSlash,
	parseISODate,
	parseMonthFirstSlash,
	parseDayFirstDash,
}

// ResolveDate parses a HIS date string into a local calendar date.
// It returns false when no supported encoding matches or the date does not exist
// (for example 31/02/2024).
func ResolveDate(text string) (time.Time, bool) {
	whole := strings.TrimSpace(text)
	if whole == "" {
		return time.Time{}, false
	}

	datePart, _, _ := strings.Cut(whole, " ")

	for _, candidate := range dateCandidates {
		if t, ok := candidate(whole, datePart); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseCompactTimestamp(whole, _ string) (time.Time, bool) {
	m := compactTimestampPattern.FindStringSubmatch(whole)
	if m == nil {
		return time.Time{}, false
	}

	return buildDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5]), atoi(m[6]))
}

func parseCompactDate(whole, _ string) (time.Time, bool) {
	m := compactDatePattern.FindStringSubmatch(whole)
	if m == nil {
		return time.Time{}, false
	}

	return buildDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), 0, 0, 0)
}

func parseDayFirstSlash(_, datePart string) (time.Time, bool) {
	m := slashDatePattern.FindStringSubmatch(datePart)
	if m == nil {
		return time.Time{}, false
	}

	return buildDate(atoi(m[3]), atoi(m[2]), atoi(m[1]), 0, 0, 0)
}

func parseISODate(_, datePart string) (time.Time, bool) {
	datePart, _, _ = strings.Cut(datePart, "T")

	m := isoDatePattern.FindStringSubmatch(datePart)
	if m == nil {
		return time.Time{}, false
	}

	return buildDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), 0, 0, 0)
}

func parseMonthFirstSlash(_, datePart string) (time.Time, bool) {
	m := slashDatePattern.FindStringSubmatch(datePart)
	if m == nil {
		return time.Time{}, false
	}

	return buildDate(atoi(m[3]), atoi(m[1]), atoi(m[2]), 0, 0, 0)
}

func parseDayFirstDash(_, datePart string) (time.Time, bool) {
	m := dashDatePattern.FindStringSubmatch(datePart)
	if m == nil {
		return time.Time{}, false
	}

	return buildDate(atoi(m[3]), atoi(m[2]), atoi(m[1]), 0, 0, 0)
}

// buildDate constructs a local time and rejects it unless every component survives
// normalization; time.Date silently rolls 31 April over to 1 May.
func buildDate(year, month, day, hour, minute, second int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)

	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}

	if t.Hour() != hour || t.Minute() != minute || t.Second() != second {
		return time.Time{}, false
	}

	return t, true
}

// atoi is only called on regexp digit groups.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)

	return n
}
