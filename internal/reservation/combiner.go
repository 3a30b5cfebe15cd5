package reservation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

// DefaultDuration is the fixed length of every appointment.
const DefaultDuration = time.Hour

// Combiner fuses a draft's date and time into start/end instants.
type Combiner struct {
	parser   DateParser
	loc      *time.Location
	duration time.Duration
	logger   *logging.Logger
}

// NewCombiner creates a combiner producing appointments of the given length.
func NewCombiner(parser DateParser, loc *time.Location, duration time.Duration, logger *logging.Logger) *Combiner {
	if loc == nil {
		loc = time.Local
	}
	if parser == nil {
		parser = NewFuzzyParser(loc, nil)
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Combiner{parser: parser, loc: loc, duration: duration, logger: logger}
}

// Combine sets StartAt/EndAt when both Date and Time are present. The
// structured path reads Date day-first and Time as H[:MM]; failing that the
// two strings are parsed together as one free-form timestamp. When both fail
// the draft keeps its raw strings and the failure is only logged.
func (c *Combiner) Combine(d Draft) Draft {
	if d.Date == "" || d.Time == "" {
		d.StartAt, d.EndAt = nil, nil
		return d
	}

	start, err := c.combineParts(d.Date, d.Time)
	if err != nil {
		var fallbackErr error
		start, fallbackErr = c.parser.Parse(d.Date + " " + d.Time)
		if fallbackErr != nil {
			c.logger.Warn("datetime combination failed",
				"date", d.Date,
				"time", d.Time,
				"error", err,
				"fallback_error", fallbackErr,
			)
			d.StartAt, d.EndAt = nil, nil
			return d
		}
		c.logger.Debug("datetime combined by free-form fallback", "date", d.Date, "time", d.Time, "error", err)
	}

	end := start.Add(c.duration)
	d.StartAt, d.EndAt = &start, &end
	return d
}

func (c *Combiner) combineParts(date, clock string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, c.loc)
	if err != nil {
		if day, err = c.parser.ParseDayFirst(date); err != nil {
			return time.Time{}, err
		}
	}
	hour, minute, err := splitClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, c.loc), nil
}

// splitClock reads "HH:MM" or a bare hour.
func splitClock(clock string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if hour, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: hour %q", ErrUnparseable, clock)
	}
	if len(parts) > 1 {
		if minute, err = strconv.Atoi(parts[1]); err != nil {
			return 0, 0, fmt.Errorf("%w: minute %q", ErrUnparseable, clock)
		}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: clock out of range %q", ErrUnparseable, clock)
	}
	return hour, minute, nil
}
