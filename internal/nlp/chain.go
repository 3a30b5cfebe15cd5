package nlp

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

// FallbackRecognizer wraps a primary recognizer with a fallback. If the
// primary fails, the fallback is consulted for the same text.
type FallbackRecognizer struct {
	primary  reservation.Recognizer
	fallback reservation.Recognizer
	logger   *logging.Logger
}

// NewFallbackRecognizer creates a fallback-enabled recognizer. A nil
// fallback leaves only the primary.
func NewFallbackRecognizer(primary, fallback reservation.Recognizer, logger *logging.Logger) *FallbackRecognizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackRecognizer{primary: primary, fallback: fallback, logger: logger}
}

func (f *FallbackRecognizer) Recognize(ctx context.Context, text string) ([]reservation.Entity, error) {
	ents, err := f.primary.Recognize(ctx, text)
	if err == nil {
		return ents, nil
	}

	f.logger.Warn("primary recognizer failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", f.fallback != nil,
	)
	if f.fallback == nil {
		return nil, err
	}

	ents, fallbackErr := f.fallback.Recognize(ctx, text)
	if fallbackErr != nil {
		f.logger.Error("fallback recognizer also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return nil, fallbackErr
	}
	return ents, nil
}

// RecognitionObserver receives one observation per recognizer call.
type RecognitionObserver interface {
	ObserveRecognition(recognizer string, elapsed time.Duration, err error)
}

// Instrumented times every call of the wrapped recognizer.
type Instrumented struct {
	name     string
	next     reservation.Recognizer
	observer RecognitionObserver
}

// Instrument wraps next so each call is reported to observer under name.
func Instrument(name string, next reservation.Recognizer, observer RecognitionObserver) *Instrumented {
	return &Instrumented{name: name, next: next, observer: observer}
}

func (i *Instrumented) Recognize(ctx context.Context, text string) ([]reservation.Entity, error) {
	start := time.Now()
	ents, err := i.next.Recognize(ctx, text)
	if i.observer != nil {
		i.observer.ObserveRecognition(i.name, time.Since(start), err)
	}
	return ents, err
}

// Recognizer kinds accepted by New.
const (
	KindRules  = "rules"
	KindProse  = "prose"
	KindGemini = "gemini"
)

// Options selects and configures a recognizer.
type Options struct {
	Kind          string
	GeminiAPIKey  string
	GeminiModelID string
	Logger        *logging.Logger
	Observer      RecognitionObserver
}

// New builds the configured recognizer. Gemini and prose fall back to the
// rule recognizer when they fail. The returned closer releases model clients.
func New(ctx context.Context, opts Options) (reservation.Recognizer, io.Closer, error) {
	kind := strings.ToLower(strings.TrimSpace(opts.Kind))
	if kind == "" {
		kind = KindRules
	}
	rules := Instrument(KindRules, NewRuleRecognizer(), opts.Observer)

	switch kind {
	case KindRules:
		return rules, nopCloser{}, nil
	case KindProse:
		named := Instrument(KindProse, NewProseRecognizer(), opts.Observer)
		return NewFallbackRecognizer(named, rules, opts.Logger), nopCloser{}, nil
	case KindGemini:
		g, err := NewGeminiRecognizer(ctx, opts.GeminiAPIKey, opts.GeminiModelID)
		if err != nil {
			return nil, nil, err
		}
		gemini := Instrument(KindGemini, g, opts.Observer)
		return NewFallbackRecognizer(gemini, rules, opts.Logger), g, nil
	default:
		return nil, nil, fmt.Errorf("nlp: unknown recognizer %q", opts.Kind)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
