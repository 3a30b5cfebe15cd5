package reservation

import (
	"time"
)

// BookedInterval is a committed reservation held in an owner's booked list.
// Start and End are ISO-8601 instants for every well-formed commit but are
// kept as strings because a degraded commit may carry raw text.
type BookedInterval struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AllDay      bool   `json:"all_day"`
	Description string `json:"description"`
}

// OverlapChecker compares booked intervals whose instants are wall-clock
// times in one location.
type OverlapChecker struct {
	loc    *time.Location
	parser DateParser
}

// NewOverlapChecker reads instants in loc; non-ISO instants go through parser.
// Nil arguments default to the local zone and a FuzzyParser in loc.
func NewOverlapChecker(loc *time.Location, parser DateParser) *OverlapChecker {
	if loc == nil {
		loc = time.Local
	}
	if parser == nil {
		parser = NewFuzzyParser(loc, nil)
	}
	return &OverlapChecker{loc: loc, parser: parser}
}

var localOverlap = NewOverlapChecker(time.Local, nil)

// Bounds parses the interval's instants in the local zone.
func (b BookedInterval) Bounds() (start, end time.Time, ok bool) {
	return localOverlap.Bounds(b)
}

// Bounds parses the interval's instants in the checker's location.
func (c *OverlapChecker) Bounds(b BookedInterval) (start, end time.Time, ok bool) {
	var err error
	if start, err = c.parseInstant(b.Start); err != nil {
		return time.Time{}, time.Time{}, false
	}
	if end, err = c.parseInstant(b.End); err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Overlaps reports whether two half-open intervals [s1,e1) and [s2,e2) intersect.
// Touching endpoints do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// CheckOverlap reports whether candidate collides with any existing interval,
// reading instants in the local zone.
func CheckOverlap(candidate BookedInterval, existing []BookedInterval) bool {
	return localOverlap.Check(candidate, existing)
}

// Check reports whether candidate collides with any existing interval.
// A timestamp that cannot be parsed on either side ends the scan with false:
// the check fails open rather than blocking the booking.
func (c *OverlapChecker) Check(candidate BookedInterval, existing []BookedInterval) bool {
	s1, e1, ok := c.Bounds(candidate)
	if !ok {
		return false
	}
	for _, other := range existing {
		s2, e2, ok := c.Bounds(other)
		if !ok {
			return false
		}
		if Overlaps(s1, e1, s2, e2) {
			return true
		}
	}
	return false
}

func (c *OverlapChecker) parseInstant(s string) (time.Time, error) {
	if t, ok := parseISOInstant(s, c.loc); ok {
		return t, nil
	}
	return c.parser.Parse(s)
}
