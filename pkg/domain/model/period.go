package model

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Period is a closed reporting interval [Start, End], both inclusive.
// Start and End are civil dates (midnight UTC, no time component).
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod creates a Period from two dates. The time components of the
// arguments are discarded.
func NewPeriod(start, end time.Time) (Period, error) {
	s := DateOf(start)
	e := DateOf(end)
	if s.After(e) {
		return Period{}, goerr.Wrap(ErrInvalidPeriod, "start is after end",
			goerr.V("start", s.Format(time.DateOnly)),
			goerr.V("end", e.Format(time.DateOnly)))
	}
	return Period{Start: s, End: e}, nil
}

// ParsePeriod creates a Period from two YYYY-MM-DD strings.
func ParsePeriod(start, end string) (Period, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return Period{}, goerr.Wrap(ErrInvalidPeriod, "malformed start date",
			goerr.V("start", start))
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return Period{}, goerr.Wrap(ErrInvalidPeriod, "malformed end date",
			goerr.V("end", end))
	}
	return NewPeriod(s, e)
}

// Contains reports whether the date part of t falls within the period.
func (p Period) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Dates returns every calendar date in the period in ascending order.
func (p Period) Dates() []time.Time {
	var dates []time.Time
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// String returns the period in "YYYY-MM-DD/YYYY-MM-DD" form.
func (p Period) String() string {
	return fmt.Sprintf("%s/%s", p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
}

// LogValue returns structured log value
func (p Period) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("start", p.Start.Format(time.DateOnly)),
		slog.String("end", p.End.Format(time.DateOnly)),
	)
}

// DateOf truncates a timestamp to its civil date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
