package replenish

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dayFormat = "2006-01-02"

// instantLayouts are tried in order before the D/M/YYYY fallback.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dayFormat,
}

var dmyPattern = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})$`)

// ParseInstant resolves a date-like value (native time, ISO-8601 string or a
// legacy D/M/YYYY string) to an instant. A false return means the record
// carries no usable date and must be excluded, never included.
func ParseInstant(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}

	s := strings.TrimSpace(asString(v))
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
		}
	}

	return time.Time{}, false
}

// DayString truncates a date-like value to its calendar day, or returns ""
// when the value does not parse.
func DayString(v any) string {
	t, ok := ParseInstant(v)
	if !ok {
		return ""
	}
	return t.Format(dayFormat)
}

// Window is the half-open trailing day range [From, To) over which visits and
// sales are summed. To is the start of tomorrow, so today always counts in
// full and future-dated rows never do.
type Window struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
}

// NewWindow anchors a window of the given length at the day after now.
func NewWindow(now time.Time, days int) Window {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	from := tomorrow.AddDate(0, 0, -days)
	return Window{
		From: from.Format(dayFormat),
		To:   tomorrow.Format(dayFormat),
		Days: days,
	}
}

// Contains reports whether a date-like value falls inside the window at day
// granularity. Day strings in YYYY-MM-DD form compare correctly as strings.
func (w Window) Contains(dateLike any) bool {
	d := DayString(dateLike)
	return d != "" && d >= w.From && d < w.To
}

// IsZero reports whether the window is unset (no filtering).
func (w Window) IsZero() bool {
	return w.From == "" && w.To == ""
}
