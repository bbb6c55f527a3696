package model

import "time"

const (
	DateLayout   = "2006-01-02"
	dateLayoutUS = "01-02-2006"
)

// ParseDate accepts YYYY-MM-DD, then MM-DD-YYYY. The result is midnight local time.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, dateLayoutUS} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Day strips the time of day from t in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
