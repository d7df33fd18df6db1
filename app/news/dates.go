package news

import (
	"strconv"
	"strings"
	"time"
)

// Three-letter month abbreviations, plus the two-letter truncations seen in
// malformed upstream payloads ("Tue, 24 De").
var monthAbbrevs = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
	"No": time.November, "De": time.December,
}

// ParsePubDate parses a publication timestamp into a calendar date. Accepted
// forms, tried in order: ISO-8601 with a literal T separator, an abbreviated
// weekday-comma form ("Tue, 24 Dec 2024 ...", year optional), and a bare
// YYYY-MM-DD prefix. Returns false when nothing matches.
func ParsePubDate(s string) (time.Time, bool) {
	return ParsePubDateAt(s, time.Now())
}

// ParsePubDateAt is ParsePubDate with an explicit reference time, used to
// resolve the year when the abbreviated form omits it.
func ParsePubDateAt(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if i := strings.Index(s, "T"); i >= 0 {
		if d, err := time.Parse("2006-01-02", s[:i]); err == nil {
			return d, true
		}
	}

	if d, ok := parseAbbrevDate(s, now); ok {
		return d, true
	}

	if len(s) >= 10 {
		if d, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return d, true
		}
	}

	return time.Time{}, false
}

func parseAbbrevDate(s string, now time.Time) (time.Time, bool) {
	comma := strings.Index(s, ",")
	if comma < 0 {
		return time.Time{}, false
	}

	fields := strings.Fields(s[comma+1:])
	if len(fields) < 2 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	month, ok := monthAbbrevs[fields[1]]
	if !ok {
		return time.Time{}, false
	}

	year := now.Year()
	if len(fields) >= 3 {
		if y, err := strconv.Atoi(fields[2]); err == nil && y >= 1000 {
			year = y
		}
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}
