// Package nlp provides the entity recognizers the reservation engine runs
// over user messages: a lexical rule recognizer, a prose-backed NER
// recognizer, a Gemini-backed recognizer and a fallback chain.
package nlp

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
)

const (
	weekdayAlt = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`
	monthAlt   = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`
)

var (
	// Bare weekday names are left to the pattern fallback, which resolves a
	// same-day weekday to today rather than next week.
	dateSpanRE = regexp.MustCompile(`(?i)\b(?:` +
		`today|tomorrow|yesterday` +
		`|(?:next|this)\s+(?:` + weekdayAlt + `)` +
		`|\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}` +
		`|\d{1,2}[-/]\d{1,2}` +
		`|(?:` + monthAlt + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?` +
		`|\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?(?:` + monthAlt + `)(?:,?\s+\d{4})?` +
		`)\b`)

	timeSpanRE = regexp.MustCompile(`(?i)\b(?:` +
		`\d{1,2}(?::\d{2})?\s*(?:o'?clock)?\s*(?:in the\s+)?(?:morning|afternoon|evening|night)` +
		`|\d{1,2}(?::\d{2})?\s*(?:a\.m\.|p\.m\.|am|pm)` +
		`|\d{1,2}:\d{2}` +
		`|\d{1,2}\s*o'?clock` +
		`)`)

	capitalizedWordRE = regexp.MustCompile(`\b[A-Z][a-zA-Z'-]*`)
)

// leadingNonNames are capitalised words that start requests rather than name people.
var leadingNonNames = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "please": {}, "book": {}, "reserve": {}, "schedule": {},
	"thanks": {}, "thank": {}, "ok": {}, "okay": {}, "yes": {}, "no": {}, "can": {}, "could": {},
	"appointment": {}, "meeting": {}, "reservation": {}, "table": {},
	"i": {}, "i'm": {}, "my": {}, "we": {}, "our": {}, "under": {}, "for": {}, "with": {}, "at": {}, "on": {},
	"need": {}, "want": {}, "would": {}, "set": {}, "make": {}, "put": {}, "add": {}, "create": {},
}

// RuleRecognizer finds entities lexically: temporal spans by pattern and
// person names as runs of capitalised words.
type RuleRecognizer struct{}

// NewRuleRecognizer creates a rule recognizer.
func NewRuleRecognizer() *RuleRecognizer { return &RuleRecognizer{} }

type span struct {
	start, end int
	entity     reservation.Entity
}

func (r *RuleRecognizer) Recognize(_ context.Context, text string) ([]reservation.Entity, error) {
	temporal := temporalSpans(text)
	all := append(personSpans(text, temporal), temporal...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].start < all[j].start })
	return entities(all), nil
}

// TemporalEntities returns the DATE and TIME spans of text in reading order.
func TemporalEntities(text string) []reservation.Entity {
	return entities(temporalSpans(text))
}

func temporalSpans(text string) []span {
	var out []span
	for _, loc := range dateSpanRE.FindAllStringIndex(text, -1) {
		out = append(out, newSpan(text, loc, reservation.LabelDate))
	}
	for _, loc := range timeSpanRE.FindAllStringIndex(text, -1) {
		if overlapsAny(loc, out) {
			continue
		}
		out = append(out, newSpan(text, loc, reservation.LabelTime))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func personSpans(text string, taken []span) []span {
	var out []span
	var run [][]int
	flush := func() {
		if s, ok := nameFromRun(text, run); ok {
			out = append(out, s)
		}
		run = nil
	}
	for _, loc := range capitalizedWordRE.FindAllStringIndex(text, -1) {
		if overlapsAny(loc, taken) || reservation.IsExcludedName(text[loc[0]:loc[1]]) {
			flush()
			continue
		}
		if len(run) > 0 && strings.TrimSpace(text[run[len(run)-1][1]:loc[0]]) != "" {
			flush()
		}
		run = append(run, loc)
	}
	flush()
	return out
}

// nameFromRun turns adjacent capitalised words into a PERSON span. A lone
// capitalised word opening a sentence is not taken as a name.
func nameFromRun(text string, run [][]int) (span, bool) {
	if len(run) == 0 {
		return span{}, false
	}
	atStart := sentenceStart(text, run[0][0])
	for len(run) > 0 && isLeadingNonName(text[run[0][0]:run[0][1]]) {
		run = run[1:]
		atStart = false
	}
	if len(run) == 0 || (atStart && len(run) == 1) {
		return span{}, false
	}
	start, end := run[0][0], run[len(run)-1][1]
	name := strings.Join(strings.Fields(text[start:end]), " ")
	if !reservation.ValidNameCandidate(name) {
		return span{}, false
	}
	return span{start: start, end: end, entity: reservation.Entity{Label: reservation.LabelPerson, Text: name}}, true
}

func newSpan(text string, loc []int, label reservation.Label) span {
	return span{start: loc[0], end: loc[1], entity: reservation.Entity{Label: label, Text: text[loc[0]:loc[1]]}}
}

func overlapsAny(loc []int, spans []span) bool {
	for _, s := range spans {
		if loc[0] < s.end && loc[1] > s.start {
			return true
		}
	}
	return false
}

// sentenceStart reports whether the word at i opens a sentence, where
// capitalisation says nothing about names.
func sentenceStart(text string, i int) bool {
	before := strings.TrimRight(text[:i], " \t\n\"'(")
	return before == "" || strings.HasSuffix(before, ".") || strings.HasSuffix(before, "!") || strings.HasSuffix(before, "?")
}

func isLeadingNonName(word string) bool {
	_, ok := leadingNonNames[strings.ToLower(strings.Trim(word, ".,"))]
	return ok
}

func entities(spans []span) []reservation.Entity {
	out := make([]reservation.Entity, 0, len(spans))
	for _, s := range spans {
		out = append(out, s.entity)
	}
	return out
}

var _ reservation.Recognizer = (*RuleRecognizer)(nil)
