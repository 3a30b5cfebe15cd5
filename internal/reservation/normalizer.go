package reservation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Canonical layouts used across the pipeline.
const (
	DateLayout    = "02.01.2006"
	ClockLayout   = "15:04"
	InstantLayout = "2006-01-02T15:04:05"
)

// Outcome is the result of one parsing step: either a canonical value
// (Parsed) or the raw input carried forward verbatim.
type Outcome struct {
	Value  string
	Parsed bool
}

// Parsed wraps a canonical value.
func Parsed(value string) Outcome { return Outcome{Value: value, Parsed: true} }

// Unparsed wraps raw text that no strategy could resolve.
func Unparsed(raw string) Outcome { return Outcome{Value: raw} }

// Empty reports whether the step produced nothing at all.
func (o Outcome) Empty() bool { return o.Value == "" }

func (o Outcome) String() string {
	if o.Parsed {
		return fmt.Sprintf("Parsed(%s)", o.Value)
	}
	return fmt.Sprintf("Unparsed(%s)", o.Value)
}

// WeekdayRule selects how a weekday that equals today's weekday resolves.
type WeekdayRule int

const (
	// SameDayIsNextWeek resolves "wednesday" on a Wednesday to seven days ahead.
	// Used for recognised DATE spans and "next <weekday>" phrasing.
	SameDayIsNextWeek WeekdayRule = iota
	// SameDayIsToday resolves "wednesday" on a Wednesday to today. Used for
	// bare weekday mentions found by the pattern fallback.
	SameDayIsToday
)

// ResolveWeekday returns the date of the next occurrence of day relative to now.
func ResolveWeekday(now time.Time, day time.Weekday, rule WeekdayRule) time.Time {
	ahead := (int(day) - int(now.Weekday()) + 7) % 7
	if ahead == 0 && rule == SameDayIsNextWeek {
		ahead = 7
	}
	return now.AddDate(0, 0, ahead)
}

var weekQualifierRE = regexp.MustCompile(`(?i)\b(?:next|this)\s+`)

var relativeDayOffsets = map[string]int{
	"today":     0,
	"tomorrow":  1,
	"yesterday": -1,
}

// Normalizer resolves relative and fuzzy date/time phrases against a reference clock.
type Normalizer struct {
	now    func() time.Time
	parser DateParser
}

// NewNormalizer creates a normalizer. A nil clock defaults to time.Now and a
// nil parser to a FuzzyParser in the local zone.
func NewNormalizer(now func() time.Time, parser DateParser) *Normalizer {
	if now == nil {
		now = time.Now
	}
	if parser == nil {
		parser = NewFuzzyParser(time.Local, now)
	}
	return &Normalizer{now: now, parser: parser}
}

// Now returns the reference instant.
func (n *Normalizer) Now() time.Time { return n.now() }

// ResolveDate turns a date phrase into DD.MM.YYYY. Resolution order:
// exact relative day, fuzzy parse with "next "/"this " stripped, first
// weekday name in canonical order (same weekday means next week), raw text.
func (n *Normalizer) ResolveDate(phrase string) Outcome {
	text := strings.ToLower(strings.TrimSpace(phrase))
	if text == "" {
		return Outcome{}
	}
	now := n.now()

	if offset, ok := relativeDayOffsets[text]; ok {
		return Parsed(now.AddDate(0, 0, offset).Format(DateLayout))
	}

	stripped := weekQualifierRE.ReplaceAllString(strings.TrimSpace(phrase), "")
	if t, err := n.parser.ParseFuzzy(stripped); err == nil {
		return Parsed(t.Format(DateLayout))
	}

	for _, w := range weekdayOrder {
		if strings.Contains(text, w.name) {
			return Parsed(ResolveWeekday(now, w.day, SameDayIsNextWeek).Format(DateLayout))
		}
	}
	return Unparsed(phrase)
}

// timePattern is one entry of the ordered time extraction cascade. Group
// indexes of zero mean the pattern has no such capture.
type timePattern struct {
	Name   string
	re     *regexp.Regexp
	hour   int
	minute int
	period int
}

// TimePatternOrder is the fixed priority order in which time phrases are
// matched. The first pattern that matches and yields a valid clock wins,
// which is not necessarily the most specific one.
var TimePatternOrder = []timePattern{
	{
		Name:   "hour-day-part",
		re:     regexp.MustCompile(`(?i)(\d{1,2})\s*(?:o'?clock)?\s*(?:in the\s+)?(afternoon|evening|morning|night)`),
		hour:   1,
		period: 2,
	},
	{
		Name:   "hour-meridiem",
		re:     regexp.MustCompile(`(?i)(\d{1,2})\s*(?:o'?clock)?\s*(am|pm)`),
		hour:   1,
		period: 2,
	},
	{
		Name:   "clock-optional-meridiem",
		re:     regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`),
		hour:   1,
		minute: 2,
		period: 3,
	},
	{
		Name:   "clock-day-part",
		re:     regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(?:in the\s+)?(afternoon|evening|morning|night)`),
		hour:   1,
		minute: 2,
		period: 3,
	},
}

// match applies the pattern and converts the capture to HH:MM.
func (p timePattern) match(text string) (string, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	hour, err := strconv.Atoi(m[p.hour])
	if err != nil {
		return "", false
	}
	minute := 0
	if p.minute > 0 && m[p.minute] != "" {
		if minute, err = strconv.Atoi(m[p.minute]); err != nil {
			return "", false
		}
	}
	period := ""
	if p.period > 0 {
		period = strings.ToLower(m[p.period])
	}
	hour = applyPeriod(hour, period)
	if hour > 23 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// applyPeriod converts a 12-hour reading to 24-hour using an am/pm marker or
// a part-of-day word.
func applyPeriod(hour int, period string) int {
	switch period {
	case "pm", "afternoon", "evening", "night":
		if hour < 12 {
			hour += 12
		}
	case "am", "morning":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

// ResolveTime runs the time cascade over a phrase and returns HH:MM.
func (n *Normalizer) ResolveTime(phrase string) Outcome {
	if strings.TrimSpace(phrase) == "" {
		return Outcome{}
	}
	for _, p := range TimePatternOrder {
		if clock, ok := p.match(phrase); ok {
			return Parsed(clock)
		}
	}
	return Unparsed(phrase)
}

var clockSignalRE = regexp.MustCompile(`(?i)\d:\d{2}|\d\s*(?:a\.m\.|p\.m\.|am|pm)\b`)

// ResolveClock reads a recognised TIME span as HH:MM. Standalone clock forms
// are read by ParseClock; longer spans that carry a clock, such as full
// timestamps, go through the date parser.
func (n *Normalizer) ResolveClock(span string) Outcome {
	text := strings.TrimSpace(span)
	if text == "" {
		return Outcome{}
	}
	if t, err := ParseClock(text); err == nil {
		return Parsed(t.Format(ClockLayout))
	}
	if clockSignalRE.MatchString(text) {
		if t, err := n.parser.Parse(text); err == nil {
			return Parsed(t.Format(ClockLayout))
		}
	}
	return Unparsed(text)
}

var clockLayouts = []string{
	"3pm", "3 pm", "3:04pm", "3:04 pm", "3:04:05pm", "3:04:05 pm",
	"15:04", "15:04:05", "15",
}

var clockNoiseRE = regexp.MustCompile(`^(?:at|around|about)\s+|\s*o'?clock`)

// ParseClock reads a standalone time of day ("3pm", "9:30 am", "15:00").
// Only the hour and minute of the returned time are meaningful.
func ParseClock(text string) (time.Time, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.TrimSpace(clockNoiseRE.ReplaceAllString(text, ""))
	text = strings.ReplaceAll(strings.ReplaceAll(text, "a.m.", "am"), "p.m.", "pm")
	if text == "" {
		return time.Time{}, ErrUnparseable
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, text)
}
