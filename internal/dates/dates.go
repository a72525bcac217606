package dates

import (
	"fmt"
	"regexp"
	"time"

	"github.com/moodline/backend/internal/apperrors"
)

// The accepted date formats, tried in order; first match wins. Day-first
// inputs are reassembled to YYYY-MM-DD before being resolved to a calendar
// date. YYYY-MM-DD is accepted as-is (ISO order, no day/month swap).
var dayPatterns = []struct {
	re       *regexp.Regexp
	dayFirst bool
}{
	{regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`), true},
	{regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`), true},
	{regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`), false},
	{regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`), true},
}

// ParseDay normalizes a human-entered date string into a calendar date at
// midnight local time. Input matching none of the accepted formats, or
// matching one but naming an impossible date, fails with ErrValidation.
func ParseDay(text string) (time.Time, error) {
	for _, p := range dayPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		iso := m[1] + "-" + m[2] + "-" + m[3]
		if p.dayFirst {
			iso = m[3] + "-" + m[2] + "-" + m[1]
		}
		t, err := time.ParseInLocation("2006-01-02", iso, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: unrecognized date %q", apperrors.ErrValidation, text)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", apperrors.ErrValidation, text)
}

// DayBounds returns the inclusive bounds of t's local calendar day,
// 00:00:00.000 through 23:59:59.999.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// WeekBounds returns the inclusive bounds of t's ISO week, Monday 00:00:00.000
// through Sunday 23:59:59.999. A Sunday counts as day 7 of the week that
// began the previous Monday.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	monday := t.AddDate(0, 0, -offset)
	start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// FormatDayDot renders t as DD.MM.YYYY.
func FormatDayDot(t time.Time) string {
	return t.Format("02.01.2006")
}
