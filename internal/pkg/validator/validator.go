package validator

import (
	"errors"
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseDate. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
	"2006/01/02",
}

var ErrInvalidDate = errors.New("invalid date format")

// ParseDate parses the date formats a browser date input or an ISO timestamp produces.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// IsValidDate reports whether ParseDate accepts s
func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// IsBlank reports whether s has nothing but Unicode white space
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// DayBefore reports whether the calendar day of a is before that of b.
// Each value is read in its own location, so a date-only value stays on its day.
func DayBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).Before(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC))
}
