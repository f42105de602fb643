package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	slashDMYPattern   = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{2})`)           // 18/11/25
	dashDMonYPattern  = regexp.MustCompile(`(\d{2})-([A-Za-z]{3})-(\d{2})`)     // 05-Nov-25
	dashDMYPattern    = regexp.MustCompile(`(\d{2})-(\d{2})-(\d{2})`)           // 30-11-25
	spaceDMonYPattern = regexp.MustCompile(`(\d{2})\s+([A-Za-z]{3})\s+(\d{4})`) // 31 OCT 2025
)

// Month tokens appear in whatever casing the bank template uses ("OCT",
// "Nov"), which time.Parse does not accept, so they are mapped directly.
var monthMap = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// parseDate normalizes the date formats the dialects carry to an absolute
// calendar date. When no format matches it falls back to the current time;
// some dialects carry no parsable date at all and this fallback is the
// intended behavior, not a failure.
func parseDate(s string) time.Time {
	if m := slashDMYPattern.FindStringSubmatch(s); m != nil {
		return civilDate(2000+atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1]))
	}

	if m := dashDMonYPattern.FindStringSubmatch(s); m != nil {
		if month, ok := monthMap[strings.ToUpper(m[2])]; ok {
			return civilDate(2000+atoi(m[3]), month, atoi(m[1]))
		}
	}

	if m := dashDMYPattern.FindStringSubmatch(s); m != nil {
		return civilDate(2000+atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1]))
	}

	if m := spaceDMonYPattern.FindStringSubmatch(s); m != nil {
		if month, ok := monthMap[strings.ToUpper(m[2])]; ok {
			return civilDate(atoi(m[3]), month, atoi(m[1]))
		}
	}

	return time.Now()
}

func civilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
