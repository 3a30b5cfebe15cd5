package nlp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

func fixed(ents []reservation.Entity, err error) reservation.Recognizer {
	return reservation.RecognizerFunc(func(context.Context, string) ([]reservation.Entity, error) {
		return ents, err
	})
}

func TestFallbackRecognizer(t *testing.T) {
	primaryErr := errors.New("primary down")
	fallbackErr := errors.New("fallback down")
	primaryEnts := []reservation.Entity{person("John")}
	fallbackEnts := []reservation.Entity{date("tomorrow")}

	tests := []struct {
		name     string
		primary  reservation.Recognizer
		fallback reservation.Recognizer
		want     []reservation.Entity
		wantErr  error
	}{
		{"primary succeeds", fixed(primaryEnts, nil), fixed(fallbackEnts, nil), primaryEnts, nil},
		{"fallback used", fixed(nil, primaryErr), fixed(fallbackEnts, nil), fallbackEnts, nil},
		{"no fallback", fixed(nil, primaryErr), nil, nil, primaryErr},
		{"both fail", fixed(nil, primaryErr), fixed(nil, fallbackErr), nil, fallbackErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFallbackRecognizer(tt.primary, tt.fallback, logging.Discard())
			got, err := f.Recognize(context.Background(), "text")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type recordingObserver struct {
	names []string
	errs  []error
}

func (r *recordingObserver) ObserveRecognition(name string, _ time.Duration, err error) {
	r.names = append(r.names, name)
	r.errs = append(r.errs, err)
}

func TestInstrument(t *testing.T) {
	obs := &recordingObserver{}
	boom := errors.New("boom")

	_, _ = Instrument("rules", fixed(nil, nil), obs).Recognize(context.Background(), "x")
	_, err := Instrument("gemini", fixed(nil, boom), obs).Recognize(context.Background(), "x")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"rules", "gemini"}, obs.names)
	assert.Equal(t, []error{nil, boom}, obs.errs)

	_, err = Instrument("rules", fixed(nil, nil), nil).Recognize(context.Background(), "x")
	assert.NoError(t, err)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	r, closer, err := New(ctx, Options{})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	ents, err := r.Recognize(ctx, "tomorrow")
	require.NoError(t, err)
	assert.Equal(t, []reservation.Entity{date("tomorrow")}, ents)

	r, _, err = New(ctx, Options{Kind: "Prose", Logger: logging.Discard()})
	require.NoError(t, err)
	assert.IsType(t, &FallbackRecognizer{}, r)

	_, _, err = New(ctx, Options{Kind: KindGemini})
	assert.Error(t, err)

	_, _, err = New(ctx, Options{Kind: "spacy"})
	assert.ErrorContains(t, err, "unknown recognizer")
}
