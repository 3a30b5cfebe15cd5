package reservation

import (
	"context"
	"time"

	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

// wednesday is the reference instant for every relative-date assertion.
var wednesday = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return wednesday }

func newTestNormalizer() *Normalizer {
	return NewNormalizer(fixedClock, NewFuzzyParser(time.UTC, fixedClock))
}

func newTestEngine(r Recognizer) *Engine {
	return NewEngine(r,
		WithClock(fixedClock),
		WithLocation(time.UTC),
		WithLogger(logging.Discard()),
	)
}

// spans returns a recognizer that always yields the given entities.
func spans(ents ...Entity) Recognizer {
	return RecognizerFunc(func(context.Context, string) ([]Entity, error) {
		return ents, nil
	})
}

func at(year int, month time.Month, day, hour, minute int) *time.Time {
	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	return &t
}
