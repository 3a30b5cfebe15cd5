// Package reservation turns free-form booking requests into appointment
// records across conversation turns: entity extraction with a regex
// fallback, relative date/time normalisation, field-by-field merging with
// the prior draft, date/time combination and the validation state machine
// that decides what to ask next.
package reservation

import (
	"context"
	"strings"
	"time"

	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

type engineOptions struct {
	now         func() time.Time
	loc         *time.Location
	parser      DateParser
	policy      Policy
	duration    time.Duration
	titleSuffix string
	logger      *logging.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithClock fixes the reference instant used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

// WithLocation sets the zone naive dates and times are read in.
func WithLocation(loc *time.Location) Option {
	return func(o *engineOptions) { o.loc = loc }
}

// WithParser replaces the fuzzy date parser.
func WithParser(p DateParser) Option {
	return func(o *engineOptions) { o.parser = p }
}

// WithPolicy sets the working-hours window.
func WithPolicy(p Policy) Option {
	return func(o *engineOptions) { o.policy = p }
}

// WithDuration sets the appointment length.
func WithDuration(d time.Duration) Option {
	return func(o *engineOptions) { o.duration = d }
}

// WithTitleSuffix sets the label appended to accepted names.
func WithTitleSuffix(s string) Option {
	return func(o *engineOptions) { o.titleSuffix = s }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// Engine runs the extraction pipeline and the completion state machine.
type Engine struct {
	recognizer Recognizer
	entities   *EntityExtractor
	patterns   *PatternExtractor
	combiner   *Combiner
	machine    *Machine
	loc        *time.Location
	logger     *logging.Logger
}

// NewEngine builds an engine around recognizer. A nil recognizer leaves
// all extraction to the pattern fallback.
func NewEngine(recognizer Recognizer, opts ...Option) *Engine {
	o := engineOptions{
		now:         time.Now,
		loc:         time.Local,
		policy:      DefaultPolicy(),
		duration:    DefaultDuration,
		titleSuffix: DefaultTitleSuffix,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Default()
	}
	if o.parser == nil {
		o.parser = NewFuzzyParser(o.loc, o.now)
	}

	normalizer := NewNormalizer(o.now, o.parser)
	return &Engine{
		recognizer: recognizer,
		entities:   NewEntityExtractor(normalizer, o.titleSuffix),
		patterns:   NewPatternExtractor(normalizer, o.titleSuffix),
		combiner:   NewCombiner(o.parser, o.loc, o.duration, o.logger),
		machine:    NewMachineIn(o.policy, NewOverlapChecker(o.loc, o.parser)),
		loc:        o.loc,
		logger:     o.logger,
	}
}

// ExtractAndMerge reads one user utterance into the prior draft: recognised
// entities first, then the pattern fallback for whatever is still missing,
// then date/time combination. Recognizer failures degrade to fallback only.
func (e *Engine) ExtractAndMerge(ctx context.Context, text string, prior *Draft) Draft {
	draft := Normalize(prior).In(e.loc)
	if strings.TrimSpace(text) == "" {
		return draft
	}

	if e.recognizer != nil {
		entities, err := e.recognizer.Recognize(ctx, text)
		if err != nil {
			e.logger.Warn("entity recognition failed; using pattern fallback only", "error", err)
		}
		draft = Merge(draft, e.entities.Extract(entities))
	}

	needs := FallbackNeeds{
		Title: draft.Title == "",
		Date:  draft.Date == "",
		Time:  draft.Time == "" || hasDayPart(draft.Time),
	}
	draft = Merge(draft, e.patterns.Extract(text, needs))

	return e.combiner.Combine(draft)
}

// Check evaluates a draft without committing it.
func (e *Engine) Check(d Draft, booked []BookedInterval) Turn {
	return e.machine.Check(d, booked)
}

// Advance runs the completion state machine over a draft.
func (e *Engine) Advance(d Draft, booked []BookedInterval) Turn {
	return e.machine.Advance(d, booked)
}
