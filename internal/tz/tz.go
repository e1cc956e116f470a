// Package tz converts market-interval timestamps between local wall-clock time
// and UTC. Naive timestamps are localized to a fixed zone (Pacific time by
// default); timestamps that carry an offset are used as-is.
package tz

import (
	"fmt"
	"strings"
	"time"
)

// DefaultZone is the CAISO market timezone.
const DefaultZone = "America/Los_Angeles"

// DateLayout is the calendar date format used by configs and requests.
const DateLayout = "2006-01-02"

// Offset-bearing layouts are tried before naive ones so that a caller-supplied
// offset is never replaced by the assumed zone.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04-07:00",
	"2006-01-02T15:04-0700",
	"20060102T15:04-0700",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05 -0700",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"20060102T15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	DateLayout,
}

// Normalizer localizes naive timestamps to Location and converts them to UTC.
type Normalizer struct {
	Location *time.Location
}

// New loads the named zone. An empty name selects DefaultZone.
func New(name string) (*Normalizer, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return &Normalizer{Location: loc}, nil
}

// Must is like New but panics on an unknown zone.
func Must(name string) *Normalizer {
	n, err := New(name)
	if err != nil {
		panic(err)
	}
	return n
}

// ToUTC parses s and returns the same instant in UTC.
//
// If s has no offset it is read as wall-clock time in n.Location. isDST, when
// non-nil, picks the daylight-saving reading of an ambiguous or nonexistent
// wall time; nil means standard time.
func (n *Normalizer) ToUTC(s string, isDST *bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return n.Localize(t, isDST).UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Localize reads the wall-clock fields of naive (its own location is ignored)
// as a time in n.Location.
//
// In the fall-back overlap the wall time occurs twice: isDST=true selects the
// first (daylight) occurrence, otherwise the second (standard) one. In the
// spring-forward gap the wall time does not exist: isDST=true applies the
// daylight offset, otherwise the standard offset.
func (n *Normalizer) Localize(naive time.Time, isDST *bool) time.Time {
	wall := time.Date(naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(), time.UTC)
	wantDST := isDST != nil && *isDST

	offsets := n.offsetsAround(wall)

	var valid []time.Time
	for _, off := range offsets {
		cand := wall.Add(-time.Duration(off) * time.Second).In(n.Location)
		if sameWall(cand, wall) {
			valid = append(valid, cand)
		}
	}

	switch len(valid) {
	case 1:
		return valid[0]
	case 0:
		// Gap: the larger offset is the daylight one.
		off := offsets[0]
		for _, o := range offsets {
			if (wantDST && o > off) || (!wantDST && o < off) {
				off = o
			}
		}
		return wall.Add(-time.Duration(off) * time.Second).In(n.Location)
	}
	for _, c := range valid {
		if c.IsDST() == wantDST {
			return c
		}
	}
	return valid[0]
}

// offsetsAround returns the distinct UTC offsets (seconds) in effect within a
// day of wall. Every transition in practice falls inside that window.
func (n *Normalizer) offsetsAround(wall time.Time) []int {
	var out []int
	for _, at := range []time.Time{wall.Add(-24 * time.Hour), wall, wall.Add(24 * time.Hour)} {
		_, off := at.In(n.Location).Zone()
		seen := false
		for _, o := range out {
			if o == off {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, off)
		}
	}
	return out
}

func sameWall(t, wall time.Time) bool {
	y, m, d := t.Date()
	wy, wm, wd := wall.Date()
	return y == wy && m == wm && d == wd &&
		t.Hour() == wall.Hour() && t.Minute() == wall.Minute() &&
		t.Second() == wall.Second() && t.Nanosecond() == wall.Nanosecond()
}

// FromUTC returns t in n.Location and whether daylight saving is in effect.
func (n *Normalizer) FromUTC(t time.Time) (time.Time, bool) {
	local := t.In(n.Location)
	return local, local.IsDST()
}

// Midnight returns local midnight of the calendar day of date, in UTC.
func (n *Normalizer) Midnight(date time.Time) time.Time {
	y, m, d := date.Date()
	return n.Localize(time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil).UTC()
}

// MonthBoundary returns local midnight on the first of the month, in UTC.
// For Los Angeles that is 07:00 UTC inside daylight saving and 08:00 outside.
func (n *Normalizer) MonthBoundary(year int, month time.Month) time.Time {
	return n.Midnight(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// Window is a half-open [Start, End) UTC interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindows splits the calendar days start..end (inclusive) into one
// window per calendar month. The first and last windows are clipped to the
// range; interior windows run from one month boundary to the next.
func (n *Normalizer) MonthWindows(start, end time.Time) []Window {
	first := n.Midnight(start)
	last := n.Midnight(end.AddDate(0, 0, 1))
	if !first.Before(last) {
		return nil
	}

	var out []Window
	y, m, _ := start.Date()
	for {
		next := n.MonthBoundary(y, m+1)
		w := Window{Start: n.MonthBoundary(y, m), End: next}
		if w.Start.Before(first) {
			w.Start = first
		}
		if w.End.After(last) {
			w.End = last
		}
		out = append(out, w)
		if !next.Before(last) {
			return out
		}
		y, m, _ = time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC).Date()
	}
}

// DayRange returns every calendar day from start to end inclusive, as
// midnight dates in UTC (location-free calendar values).
func DayRange(start, end time.Time) []time.Time {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	day := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	stop := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)

	var out []time.Time
	for !day.After(stop) {
		out = append(out, day)
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}
