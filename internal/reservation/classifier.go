package reservation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// timeExpressionPatterns recognise fragments that are clock times rather than names.
var timeExpressionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}\s*(?:am|pm)$`),
	regexp.MustCompile(`^\d{1,2}:\d{2}\s*(?:am|pm)?$`),
	regexp.MustCompile(`^\d{1,2}\s*(?:o'?clock)?\s*(?:in the\s+)?(?:afternoon|evening|morning|night)$`),
}

// IsTimeExpression reports whether text reads as a time of day ("5 pm", "9:30",
// "3 o'clock in the afternoon"). Empty input is never a time expression.
func IsTimeExpression(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return false
	}
	for _, re := range timeExpressionPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// excludedNames holds tokens that can never be an appointment title on their own.
var excludedNames = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"today": {}, "tomorrow": {}, "yesterday": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {}, "friday": {}, "saturday": {}, "sunday": {},
	"morning": {}, "afternoon": {}, "evening": {}, "night": {}, "pm": {}, "am": {},
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {}, "june": {},
	"july": {}, "august": {}, "september": {}, "october": {}, "november": {}, "december": {},
}

// IsExcludedName reports whether text (case-insensitive) is in the exclusion lexicon.
func IsExcludedName(text string) bool {
	_, ok := excludedNames[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

var relativeDayWords = []string{"today", "tomorrow", "yesterday"}

var dayPartWords = []string{"afternoon", "morning", "evening", "night"}

// weekdayOrder is the canonical Monday..Sunday scan order used by every
// weekday resolution rule. First match in this order wins.
var weekdayOrder = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

func weekdayByName(name string) (time.Weekday, bool) {
	name = strings.ToLower(name)
	for _, w := range weekdayOrder {
		if w.name == name {
			return w.day, true
		}
	}
	return 0, false
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func containsWeekday(text string) bool {
	for _, w := range weekdayOrder {
		if strings.Contains(text, w.name) {
			return true
		}
	}
	return false
}

// hasDayPart reports whether a stored time still carries an unresolved
// part-of-day word ("in the afternoon") instead of a clock time.
func hasDayPart(text string) bool {
	return containsAny(strings.ToLower(text), dayPartWords)
}

func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidNameCandidate applies the title acceptance filter shared by entity
// recognition and the pattern fallback.
func ValidNameCandidate(text string) bool {
	lower := strings.ToLower(text)
	switch {
	case IsExcludedName(lower):
		return false
	case len([]rune(text)) <= 1:
		return false
	case isDigits(text):
		return false
	case containsAny(lower, relativeDayWords):
		return false
	case containsWeekday(lower):
		return false
	case IsTimeExpression(text):
		return false
	}
	return true
}
