package uploadlog

import (
	"testing"
	"time"
)

func validEntry() Entry {
	return Entry{
		ID:           "u1",
		WeekLabel:    "W35-2026",
		Filename:     "export.csv",
		RowCount:     12,
		StudentCount: 8,
		TotalMinutes: 5400,
		UploadedAt:   time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
	}
}

func TestValidate(t *testing.T) {
	e := validEntry()
	if err := e.Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Entry)
		want   error
	}{
		{"empty id", func(e *Entry) { e.ID = "" }, ErrEmptyID},
		{"empty week", func(e *Entry) { e.WeekLabel = "" }, ErrEmptyWeekLabel},
		{"negative rows", func(e *Entry) { e.RowCount = -1 }, ErrNegativeCount},
		{"negative minutes", func(e *Entry) { e.TotalMinutes = -1 }, ErrNegativeCount},
		{"zero timestamp", func(e *Entry) { e.UploadedAt = time.Time{} }, ErrEmptyTimestamp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEntry()
			tc.mutate(&e)
			if err := e.Validate(); err != tc.want {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}
