package reservation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnparseable is returned when no strategy can read a date or time string.
var ErrUnparseable = errors.New("reservation: unparseable date/time")

// DateParser is the general-purpose date/time string parser consumed by the
// normalizer, the combiner and the overlap check.
type DateParser interface {
	// Parse reads the whole string as one date or instant.
	Parse(text string) (time.Time, error)
	// ParseDayFirst reads the whole string, resolving DD/MM ambiguity day-first.
	ParseDayFirst(text string) (time.Time, error)
	// ParseFuzzy finds a date inside free text, ignoring surrounding words.
	ParseFuzzy(text string) (time.Time, error)
}

// FuzzyParser implements DateParser on top of dateparse.
type FuzzyParser struct {
	loc *time.Location
	now func() time.Time
}

// NewFuzzyParser creates a parser resolving naive timestamps in loc. A nil
// clock defaults to time.Now; it supplies the year for year-less dates.
func NewFuzzyParser(loc *time.Location, now func() time.Time) *FuzzyParser {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &FuzzyParser{loc: loc, now: now}
}

func (p *FuzzyParser) Parse(text string) (time.Time, error) {
	return p.parse(text)
}

// ParseDayFirst reads DD/MM/YYYY, DD-MM-YYYY and DD.MM.YYYY day-first.
// dateparse reads dotted dates month-first, so dots and dashes become slashes.
func (p *FuzzyParser) ParseDayFirst(text string) (time.Time, error) {
	text = dottedDateRE.ReplaceAllString(strings.TrimSpace(text), "$1/$2/$3")
	return p.parse(text, dateparse.PreferMonthFirst(false))
}

// maxFuzzyWindow bounds the token window scanned by ParseFuzzy.
const maxFuzzyWindow = 6

var (
	separatedDigitsRE = regexp.MustCompile(`\d{1,4}[-/.]\d{1,2}`)
	dayMonthRE        = regexp.MustCompile(`^\d{1,2}([-/.])\d{1,2}$`)
	fullNumericDateRE = regexp.MustCompile(`\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}`)
	fourDigitYearRE   = regexp.MustCompile(`\b\d{4}\b`)
	ordinalSuffixRE   = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)
	ofRE              = regexp.MustCompile(`(?i)\bof\b`)
	dottedDateRE      = regexp.MustCompile(`^(\d{1,2})[.-](\d{1,2})[.-](\d{2,4})\b`)
)

var monthTokens = map[string]struct{}{
	"jan": {}, "january": {}, "feb": {}, "february": {}, "mar": {}, "march": {},
	"apr": {}, "april": {}, "may": {}, "jun": {}, "june": {}, "jul": {}, "july": {},
	"aug": {}, "august": {}, "sep": {}, "sept": {}, "september": {}, "oct": {}, "october": {},
	"nov": {}, "november": {}, "dec": {}, "december": {},
}

// ParseFuzzy scans token windows, largest first, for one that reads as a
// date. Dates without a year fall in the reference year.
func (p *FuzzyParser) ParseFuzzy(text string) (time.Time, error) {
	text = ordinalSuffixRE.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(ofRE.ReplaceAllString(text, " "))
	if text == "" {
		return time.Time{}, ErrUnparseable
	}

	tokens := strings.Fields(text)
	year := p.now().In(p.loc).Year()
	for size := min(len(tokens), maxFuzzyWindow); size > 0; size-- {
		for start := 0; start+size <= len(tokens); start++ {
			window := strings.Trim(strings.Join(tokens[start:start+size], " "), ",.;")
			if !hasDateSignal(window) {
				continue
			}
			if t, ok := p.parseWindow(window, year); ok {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, text)
}

// parseWindow reads one window. A window without a four-digit year is first
// completed with year. Numeric dates are read day-first, matching DD.MM.YYYY.
func (p *FuzzyParser) parseWindow(window string, year int) (time.Time, bool) {
	if !fourDigitYearRE.MatchString(window) && !fullNumericDateRE.MatchString(window) {
		y := strconv.Itoa(year)
		if m := dayMonthRE.FindStringSubmatch(window); m != nil {
			if t, err := p.ParseDayFirst(window + m[1] + y); err == nil {
				return t, true
			}
		}
		for _, candidate := range []string{window + " " + y, window + ", " + y} {
			if t, err := p.parse(candidate); err == nil {
				return t, true
			}
		}
	}
	parse := p.Parse
	if fullNumericDateRE.MatchString(window) {
		parse = p.ParseDayFirst
	}
	t, err := parse(window)
	if err != nil {
		return time.Time{}, false
	}
	if t.Year() == 0 {
		t = time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), p.loc)
	}
	return t, true
}

func (p *FuzzyParser) parse(text string, opts ...dateparse.ParserOption) (t time.Time, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ErrUnparseable
	}
	defer func() {
		if r := recover(); r != nil {
			t, err = time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, text)
		}
	}()
	t, err = dateparse.ParseIn(text, p.loc, opts...)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparseable, text, err)
	}
	return t, nil
}

// hasDateSignal keeps the fuzzy scan from treating bare numbers or
// weekday names as dates.
func hasDateSignal(window string) bool {
	if separatedDigitsRE.MatchString(window) {
		return true
	}
	for _, tok := range strings.Fields(strings.ToLower(window)) {
		if _, ok := monthTokens[strings.Trim(tok, ",.;")]; ok {
			return true
		}
	}
	return false
}

var _ DateParser = (*FuzzyParser)(nil)
