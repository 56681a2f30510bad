package model

import (
	"sync"
	"time"

	holiday_jp "github.com/holiday-jp/holiday_jp-go"
)

// BusinessDayCalendar decides whether a date is a working day: not a
// Saturday or Sunday, not a Japanese national holiday, and not one of the
// optionally configured extra closure dates (company holidays).
//
// Enumeration results are memoized per (start, end) pair; the contract is
// identical with or without the cache.
type BusinessDayCalendar struct {
	closures map[string]struct{}

	mu   sync.RWMutex
	memo map[string][]time.Time
}

// NewBusinessDayCalendar creates a calendar with the fixed national holiday
// table plus the given extra closure dates.
func NewBusinessDayCalendar(closures []time.Time) *BusinessDayCalendar {
	set := make(map[string]struct{}, len(closures))
	for _, d := range closures {
		set[DateOf(d).Format(time.DateOnly)] = struct{}{}
	}
	return &BusinessDayCalendar{
		closures: set,
		memo:     make(map[string][]time.Time),
	}
}

// IsBusinessDay reports whether the date part of t is a working day.
func (c *BusinessDayCalendar) IsBusinessDay(t time.Time) bool {
	d := DateOf(t)
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if holiday_jp.IsHoliday(d) {
		return false
	}
	if _, closed := c.closures[d.Format(time.DateOnly)]; closed {
		return false
	}
	return true
}

// BusinessDaysBetween returns all working days d with start <= d <= end in
// ascending order. An inverted range yields an empty sequence, not an error.
// The returned slice is the caller's own; mutating it never touches the
// cache.
func (c *BusinessDayCalendar) BusinessDaysBetween(start, end time.Time) []time.Time {
	s := DateOf(start)
	e := DateOf(end)
	if s.After(e) {
		return nil
	}

	key := s.Format(time.DateOnly) + "/" + e.Format(time.DateOnly)
	c.mu.RLock()
	cached, ok := c.memo[key]
	c.mu.RUnlock()
	if ok {
		return append([]time.Time(nil), cached...)
	}

	var days []time.Time
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			days = append(days, d)
		}
	}

	c.mu.Lock()
	c.memo[key] = days
	c.mu.Unlock()
	return append([]time.Time(nil), days...)
}

// CountBusinessDays returns the number of working days in [start, end].
func (c *BusinessDayCalendar) CountBusinessDays(start, end time.Time) int {
	return len(c.BusinessDaysBetween(start, end))
}
