package reservation

import (
	"context"
	"strings"
)

// Label classifies a recognised span.
type Label string

const (
	LabelPerson Label = "PERSON"
	LabelDate   Label = "DATE"
	LabelTime   Label = "TIME"
)

// Entity is one labelled span returned by a Recognizer.
type Entity struct {
	Label Label  `json:"label"`
	Text  string `json:"text"`
}

// Recognizer is the named-entity recognizer the extractor runs over input text.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// RecognizerFunc adapts a plain function to Recognizer.
type RecognizerFunc func(ctx context.Context, text string) ([]Entity, error)

func (f RecognizerFunc) Recognize(ctx context.Context, text string) ([]Entity, error) {
	return f(ctx, text)
}

// Extraction is the per-turn result of entity recognition or pattern
// fallback. Empty fields mean nothing was found for that field.
type Extraction struct {
	Title string
	Date  Outcome
	Time  Outcome
}

// EntityExtractor classifies recognised spans into title/date/time candidates.
type EntityExtractor struct {
	normalizer  *Normalizer
	titleSuffix string
}

// NewEntityExtractor creates an extractor that appends titleSuffix to accepted names.
func NewEntityExtractor(normalizer *Normalizer, titleSuffix string) *EntityExtractor {
	return &EntityExtractor{normalizer: normalizer, titleSuffix: titleSuffix}
}

// Extract folds entities into one Extraction. Later spans of the same label
// overwrite earlier ones; rejected PERSON spans leave the previous title intact.
func (x *EntityExtractor) Extract(entities []Entity) Extraction {
	var out Extraction
	for _, ent := range entities {
		text := strings.TrimSpace(ent.Text)
		if text == "" {
			continue
		}
		switch ent.Label {
		case LabelPerson:
			if ValidNameCandidate(text) {
				out.Title = text + x.titleSuffix
			}
		case LabelDate:
			out.Date = x.normalizer.ResolveDate(text)
		case LabelTime:
			out.Time = x.normalizer.ResolveClock(text)
		}
	}
	return out
}
