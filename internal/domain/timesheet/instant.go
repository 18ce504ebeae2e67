package timesheet

import (
	"strings"
	"time"

	"weekuren/internal/domain/rawtable"
)

// baseDay anchors bare clock times so same-day check-in/out cells compare.
var baseDay = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// instantLayouts is the ladder of wall-clock formats the attendance exports
// have been seen to use. Bare clock times are anchored to baseDay.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
	"15:04:05",
	"15:04",
	"3:04PM",
	"3:04 PM",
}

// ParseInstant interprets one cell as a wall-clock check-in/out event.
// Duration-typed cells (spreadsheet time-of-day values) are anchored to the
// base day. Bare numbers are not instants.
// POST: ok is false when the cell does not denote an instant
func ParseInstant(c rawtable.Cell) (time.Time, bool) {
	switch c.Kind {
	case rawtable.KindDuration:
		return baseDay.Add(c.Duration), true
	case rawtable.KindText:
		return parseInstantText(c.Text)
	default:
		return time.Time{}, false
	}
}

func parseInstantText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		t, err := time.Parse(layout, strings.ToUpper(s))
		if err != nil {
			continue
		}
		// Layouts without a date component parse into year 0; re-anchor.
		if t.Year() == 0 {
			t = baseDay.Add(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second)
		}
		return t, true
	}
	return time.Time{}, false
}
