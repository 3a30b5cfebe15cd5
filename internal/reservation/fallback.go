package reservation

import (
	"regexp"
	"strings"
)

// titleTemplate is one connective-anchored name pattern.
type titleTemplate struct {
	Name string
	re   *regexp.Regexp
}

// TitleTemplateOrder is the priority order of the name fallback. The first
// template whose capture survives trimming and the name filter wins.
var TitleTemplateOrder = []titleTemplate{
	{Name: "under-the-name-of", re: regexp.MustCompile(`(?i)\bunder\s+the\s+name\s+of\s+([a-zA-Z\s]+)`)},
	{Name: "under", re: regexp.MustCompile(`(?i)\bunder\s+([a-zA-Z\s]+)`)},
	{Name: "for", re: regexp.MustCompile(`(?i)\bfor\s+([a-zA-Z\s]+)(?:\s+on|\s+at|$)`)},
	{Name: "name-is", re: regexp.MustCompile(`(?i)\bname\s+is\s+([a-zA-Z\s]+)`)},
	{Name: "reservation-for", re: regexp.MustCompile(`(?i)\breservation\s+for\s+([a-zA-Z\s]+)`)},
}

// nameBoundaryWords end a captured name: "Maria on friday" keeps "Maria".
var nameBoundaryWords = map[string]struct{}{
	"on": {}, "at": {}, "in": {}, "by": {}, "from": {}, "to": {}, "with": {}, "and": {},
	"next": {}, "please": {}, "around": {}, "about": {},
}

// trimNameCandidate keeps the leading words of a capture up to the first
// connective or lexicon word.
func trimNameCandidate(capture string) string {
	var kept []string
	for _, word := range strings.Fields(capture) {
		lower := strings.ToLower(word)
		if _, stop := nameBoundaryWords[lower]; stop {
			break
		}
		if IsExcludedName(lower) {
			break
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

var (
	relativeDayREs = []struct {
		re     *regexp.Regexp
		offset int
	}{
		{regexp.MustCompile(`(?i)\btoday\b`), 0},
		{regexp.MustCompile(`(?i)\btomorrow\b`), 1},
		{regexp.MustCompile(`(?i)\byesterday\b`), -1},
	}
	nextWeekdayRE = regexp.MustCompile(`(?i)\bnext\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	weekdayREs    = func() []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(weekdayOrder))
		for i, w := range weekdayOrder {
			out[i] = regexp.MustCompile(`(?i)\b` + w.name + `\b`)
		}
		return out
	}()
)

// FallbackNeeds selects which fields the pattern fallback should attempt.
type FallbackNeeds struct {
	Title bool
	Date  bool
	Time  bool
}

// PatternExtractor is the regex fallback consulted for fields the entity
// recognizer left empty.
type PatternExtractor struct {
	normalizer  *Normalizer
	titleSuffix string
}

// NewPatternExtractor creates a fallback extractor.
func NewPatternExtractor(normalizer *Normalizer, titleSuffix string) *PatternExtractor {
	return &PatternExtractor{normalizer: normalizer, titleSuffix: titleSuffix}
}

// Extract runs the requested fallbacks over the raw utterance.
func (p *PatternExtractor) Extract(text string, needs FallbackNeeds) Extraction {
	var out Extraction
	if needs.Title {
		out.Title = p.ExtractTitle(text)
	}
	if needs.Time {
		if clock := p.normalizer.ResolveTime(text); clock.Parsed {
			out.Time = clock
		}
	}
	if needs.Date {
		out.Date = p.ExtractDate(text)
	}
	return out
}

// ExtractTitle returns "<name><suffix>" for the first template that yields a
// valid name, or "".
func (p *PatternExtractor) ExtractTitle(text string) string {
	for _, tpl := range TitleTemplateOrder {
		m := tpl.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := trimNameCandidate(m[1])
		if candidate != "" && ValidNameCandidate(candidate) {
			return candidate + p.titleSuffix
		}
	}
	return ""
}

// ExtractDate finds a date in free text. Order: literal today/tomorrow/
// yesterday, "next <weekday>" (same weekday means +7 days), then the first
// weekday in canonical order mentioned anywhere (same weekday means today).
func (p *PatternExtractor) ExtractDate(text string) Outcome {
	now := p.normalizer.Now()
	for _, rel := range relativeDayREs {
		if rel.re.MatchString(text) {
			return Parsed(now.AddDate(0, 0, rel.offset).Format(DateLayout))
		}
	}
	if m := nextWeekdayRE.FindStringSubmatch(text); m != nil {
		day, _ := weekdayByName(m[1])
		return Parsed(ResolveWeekday(now, day, SameDayIsNextWeek).Format(DateLayout))
	}
	for i, re := range weekdayREs {
		if re.MatchString(text) {
			return Parsed(ResolveWeekday(now, weekdayOrder[i].day, SameDayIsToday).Format(DateLayout))
		}
	}
	return Outcome{}
}
