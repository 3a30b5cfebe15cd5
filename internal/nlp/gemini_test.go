package nlp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
)

type stubGenerator struct {
	text  string
	err   error
	parts []genai.Part
}

func (s *stubGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	s.parts = parts
	if s.err != nil {
		return nil, s.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(s.text)}},
		}},
	}, nil
}

func TestGeminiRecognizer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []reservation.Entity
	}{
		{
			name: "plain json",
			text: `{"entities":[{"label":"PERSON","text":"John"},{"label":"DATE","text":"tomorrow"},{"label":"TIME","text":"3pm"}]}`,
			want: []reservation.Entity{person("John"), date("tomorrow"), clock("3pm")},
		},
		{
			name: "fenced with odd labels",
			text: "```json\n{\"entities\":[{\"label\":\"person\",\"text\":\" Maria \"},{\"label\":\"ORG\",\"text\":\"Acme\"},{\"label\":\"TIME\",\"text\":\"\"}]}\n```",
			want: []reservation.Entity{person("Maria")},
		},
		{
			name: "empty",
			text: `{"entities":[]}`,
			want: []reservation.Entity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{text: tt.text}
			g := &GeminiRecognizer{model: gen}

			got, err := g.Recognize(context.Background(), "Book John tomorrow at 3pm")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []genai.Part{genai.Text("Book John tomorrow at 3pm")}, gen.parts)
		})
	}
}

func TestGeminiRecognizerErrors(t *testing.T) {
	g := &GeminiRecognizer{model: &stubGenerator{err: errors.New("quota")}}
	_, err := g.Recognize(context.Background(), "hi")
	assert.ErrorContains(t, err, "quota")

	g = &GeminiRecognizer{model: &stubGenerator{text: "not json"}}
	_, err = g.Recognize(context.Background(), "hi")
	assert.ErrorContains(t, err, "decode gemini entities")

	assert.NoError(t, (&GeminiRecognizer{}).Close())
}

func TestNewGeminiRecognizerRequiresKey(t *testing.T) {
	_, err := NewGeminiRecognizer(context.Background(), " ", "")
	assert.Error(t, err)
}
