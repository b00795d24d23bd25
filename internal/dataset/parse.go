package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date layouts for the source tables. The statewise daily totals file uses
// day-first dates (31-01-2020); the cleaned district file carries ISO dates.
const (
	dayFirstLayout = "02-01-2006"
	isoLayout      = "2006-01-02"
)

var densityDigits = regexp.MustCompile(`\d+`)

// parseDayFirstDate parses a DD-MM-YYYY date.
func parseDayFirstDate(s string) (time.Time, error) {
	return time.Parse(dayFirstLayout, strings.TrimSpace(s))
}

// parseISODate parses a YYYY-MM-DD date.
func parseISODate(s string) (time.Time, error) {
	return time.Parse(isoLayout, strings.TrimSpace(s))
}

// parseCount coerces a case-count cell into an int64. Empty cells coerce to
// zero; numeric cells with a fractional part are truncated. The second return
// is false when the cell cannot be coerced at all, which drops the row.
func parseCount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// extractDensity pulls the leading numeric run out of a census density string
// such as "1102/km²". Returns false when the string contains no digits.
func extractDensity(s string) (float64, bool) {
	digits := densityDigits.FindString(s)
	if digits == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseAge coerces an age cell into a float64. Ages in the line list are
// free-text; anything that does not parse as a number drops the row.
func parseAge(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseCoordinate parses a latitude or longitude cell.
func parseCoordinate(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
