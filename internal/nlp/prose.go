package nlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
)

const prosePersonLabel = "PERSON"

// ProseRecognizer takes PERSON spans from prose's statistical NER model and
// DATE/TIME spans from the lexical rules, since prose has no temporal labels.
type ProseRecognizer struct{}

// NewProseRecognizer creates a prose-backed recognizer.
func NewProseRecognizer() *ProseRecognizer { return &ProseRecognizer{} }

func (p *ProseRecognizer) Recognize(ctx context.Context, text string) ([]reservation.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("nlp: prose document: %w", err)
	}

	var out []reservation.Entity
	for _, ent := range doc.Entities() {
		if ent.Label != prosePersonLabel {
			continue
		}
		name := strings.TrimSpace(ent.Text)
		if !reservation.ValidNameCandidate(name) {
			continue
		}
		out = append(out, reservation.Entity{Label: reservation.LabelPerson, Text: name})
	}
	return append(out, TemporalEntities(text)...), nil
}

var _ reservation.Recognizer = (*ProseRecognizer)(nil)
