package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
)

// DefaultGeminiModel is used when no model id is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

const geminiInstruction = `You extract entities from a single message sent to an appointment booking assistant.
Return JSON only, shaped as {"entities":[{"label":"PERSON|DATE|TIME","text":"..."}]}.
PERSON is the name the appointment should be booked under.
DATE is any date phrase exactly as written ("tomorrow", "next friday", "20/10/2026").
TIME is any time-of-day phrase exactly as written ("3pm", "9:30", "3 in the afternoon").
Copy spans verbatim from the message in reading order. Return {"entities":[]} when nothing applies.`

// generator is the slice of *genai.GenerativeModel the recognizer needs.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiRecognizer asks a Gemini model to label spans in JSON mode.
type GeminiRecognizer struct {
	client *genai.Client
	model  generator
}

// NewGeminiRecognizer creates a Gemini-backed recognizer.
func NewGeminiRecognizer(ctx context.Context, apiKey, modelID string) (*GeminiRecognizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("nlp: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("nlp: failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelID)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(geminiInstruction))

	return &GeminiRecognizer{client: client, model: model}, nil
}

type geminiEntities struct {
	Entities []reservation.Entity `json:"entities"`
}

func (g *GeminiRecognizer) Recognize(ctx context.Context, text string) ([]reservation.Entity, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("nlp: gemini recognition failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errors.New("nlp: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, errors.New("nlp: gemini returned empty content")
	}

	var raw strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			raw.WriteString(string(t))
		}
	}

	var parsed geminiEntities
	if err := json.Unmarshal([]byte(stripCodeFence(raw.String())), &parsed); err != nil {
		return nil, fmt.Errorf("nlp: decode gemini entities: %w", err)
	}

	out := make([]reservation.Entity, 0, len(parsed.Entities))
	for _, ent := range parsed.Entities {
		label := reservation.Label(strings.ToUpper(strings.TrimSpace(string(ent.Label))))
		switch label {
		case reservation.LabelPerson, reservation.LabelDate, reservation.LabelTime:
		default:
			continue
		}
		if strings.TrimSpace(ent.Text) == "" {
			continue
		}
		out = append(out, reservation.Entity{Label: label, Text: strings.TrimSpace(ent.Text)})
	}
	return out, nil
}

// stripCodeFence removes a ```json fence some models wrap JSON mode output in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Close releases resources held by the Gemini client.
func (g *GeminiRecognizer) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

var _ reservation.Recognizer = (*GeminiRecognizer)(nil)
