package risk

import (
	"regexp"
	"strings"
	"time"
)

// WHOIS and certificate data arrives with wildly inconsistent date
// formats. parseDate tries the common layouts and, failing that, fishes a
// "YYYY-MM-DD HH:MM:SS" prefix out of longer strings (registrars love
// appending timezone remarks). Absent or unparseable input reports !ok,
// never an error.

var datePrefixPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}`)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006.01.02",
	"02-Jan-2006",
	"January 2, 2006",
	time.RFC1123,
}

func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if m := datePrefixPattern.FindString(s); m != "" {
		m = strings.Replace(m, "T", " ", 1)
		if t, err := time.Parse("2006-01-02 15:04:05", m); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// DomainAgeYears returns the whole-year floor of the domain's age as of
// now. ok is false when the creation date is absent or unparseable.
func DomainAgeYears(creationDate string, now time.Time) (years int, ok bool) {
	created, ok := parseDate(creationDate)
	if !ok {
		return 0, false
	}

	years = 0
	for created.AddDate(years+1, 0, 0).Before(now) || created.AddDate(years+1, 0, 0).Equal(now) {
		years++
	}
	return years, true
}
